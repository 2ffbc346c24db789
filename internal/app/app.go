package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/config"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/dedao"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/notes"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/pagemeta"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/raindrop"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/scheduler"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/zhipu"
	"github.com/Pandas886/raindrop2gitee/internal/logging"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
	"github.com/Pandas886/raindrop2gitee/internal/usecase"
)

// Run modes selectable from the command line.
const (
	ModeSync   = "sync"
	ModeEnrich = "enrich"
	ModeAll    = "all"
)

// Options selects which pipelines run and whether they run once or on a
// cron schedule.
type Options struct {
	Mode string
	Cron bool
}

// Application wires configuration into the two drivers.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	sync   *usecase.Sync
	enrich *usecase.Enrich
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := notes.NewStore(cfg.Output.Root, cfg.Output.Workspace)
	if err != nil {
		return nil, fmt.Errorf("prepare notes store: %w", err)
	}

	source := raindrop.NewClient(cfg.Raindrop, baseLogger.With("component", "raindrop"))
	summarizer := dedao.NewClient(cfg.Summary, baseLogger.With("component", "dedao"))

	var tagger ports.Tagger
	if cfg.Tagging.APIKey != "" {
		tagger = zhipu.NewClient(cfg.Tagging)
		baseLogger.Info("AI tagging enabled", "model", cfg.Tagging.Model)
	}

	sync := usecase.NewSync(usecase.SyncDeps{
		Source: source,
		Store:  store,
		Meta:   pagemeta.NewResolver(nil),
		Logger: baseLogger.With("component", "sync"),
	})

	enrich := usecase.NewEnrich(usecase.EnrichDeps{
		Store:      store,
		Summarizer: summarizer,
		Tagger:     tagger,
		Delay:      cfg.Summary.Delay(),
		Logger:     baseLogger.With("component", "enrich"),
	})

	return &Application{cfg: cfg, logger: baseLogger, sync: sync, enrich: enrich}, nil
}

// Run executes the selected pipelines once, or keeps running them on the
// configured cron schedule until the context is cancelled.
func (a *Application) Run(ctx context.Context, opts Options) error {
	if err := a.validate(opts.Mode); err != nil {
		return err
	}

	if !opts.Cron {
		return a.runOnce(ctx, opts.Mode)
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression)
	job := func(trigger time.Time) {
		a.logger.Info("scheduled pass triggered", "at", trigger.Format(time.RFC3339))
		if err := a.runOnce(ctx, opts.Mode); err != nil {
			a.logger.Error("scheduled pass failed", "error", err)
		}
	}

	if err := driver.Start(ctx, job); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler running", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return driver.Stop(stopCtx)
}

func (a *Application) validate(mode string) error {
	switch mode {
	case ModeSync, ModeEnrich, ModeAll:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if (mode == ModeSync || mode == ModeAll) && a.cfg.Raindrop.Token == "" {
		return fmt.Errorf("RAINDROP_API_TOKEN is not set; get one at https://app.raindrop.io/settings/integrations")
	}

	if mode == ModeEnrich && a.cfg.Summary.Token == "" {
		return fmt.Errorf("DEDAO_API_TOKEN is not set")
	}

	return nil
}

func (a *Application) runOnce(ctx context.Context, mode string) error {
	if mode == ModeSync || mode == ModeAll {
		if _, err := a.sync.Run(ctx, a.cfg.Raindrop.Window()); err != nil {
			return fmt.Errorf("sync pass: %w", err)
		}
	}

	if mode == ModeEnrich || mode == ModeAll {
		if a.cfg.Summary.Token == "" {
			// Enrichment is optional in a combined run.
			a.logger.Warn("DEDAO_API_TOKEN is not set, skipping enrichment")
			return nil
		}
		if _, err := a.enrich.Run(ctx, a.cfg.Summary.Window()); err != nil {
			return fmt.Errorf("enrichment pass: %w", err)
		}
	}

	return nil
}
