package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Pandas886/raindrop2gitee/internal/app"
	"github.com/Pandas886/raindrop2gitee/internal/config"
	"github.com/Pandas886/raindrop2gitee/internal/logging"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "pipeline to run: sync, enrich or all")
	daemon := flag.Bool("cron", false, "keep running on the configured cron schedule instead of once")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx, app.Options{Mode: *mode, Cron: *daemon}); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
