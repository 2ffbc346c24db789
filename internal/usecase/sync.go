package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
	"github.com/Pandas886/raindrop2gitee/internal/markdown"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

// SyncDeps wires the adapters driven by the sync pass.
type SyncDeps struct {
	Source ports.BookmarkSource
	Store  ports.NoteStore
	Meta   ports.PageMetaResolver
	Logger *slog.Logger
}

// Sync pulls recent bookmarks and writes each one as a new note, skipping
// filenames that already exist.
type Sync struct {
	source ports.BookmarkSource
	store  ports.NoteStore
	meta   ports.PageMetaResolver
	logger *slog.Logger
}

// SyncReport summarizes one sync pass.
type SyncReport struct {
	Created      []string
	Skipped      int
	Failed       int
	ManifestPath string
}

// NewSync constructs the sync driver.
func NewSync(deps SyncDeps) *Sync {
	return &Sync{
		source: deps.Source,
		store:  deps.Store,
		meta:   deps.Meta,
		logger: deps.Logger,
	}
}

// Run executes one pass: fetch, render, idempotent write, manifest flush.
// Per-bookmark failures are logged and skipped; a fetch failure degrades to
// processing whatever was collected before it.
func (s *Sync) Run(ctx context.Context, window time.Duration) (SyncReport, error) {
	var report SyncReport

	if s.source == nil || s.store == nil {
		return report, fmt.Errorf("sync driver is not fully wired")
	}

	s.info("sync started", "window_days", int(window.Hours()/24))

	bookmarks, err := s.source.FetchRecent(ctx, window)
	if err != nil {
		s.warn("fetch incomplete, continuing with partial result", "error", err, "collected", len(bookmarks))
	}
	s.info("bookmarks fetched", "count", len(bookmarks))

	now := time.Now()
	for _, b := range bookmarks {
		if s.meta != nil && needsTitle(b.Title) {
			if title, err := s.meta.Title(ctx, b.URL); err != nil {
				s.debug("page title lookup failed", "url", b.URL, "error", err)
			} else if title != "" {
				b.Title = title
			}
		}

		name := markdown.NoteFilename(b, now)

		if s.store.Exists(name) {
			report.Skipped++
			s.debug("skip existing note", "file", name)
			continue
		}

		if err := s.store.Write(name, markdown.Render(b)); err != nil {
			report.Failed++
			s.warn("write failed", "file", name, "bookmark", b.ID, "error", err)
			continue
		}

		report.Created = append(report.Created, name)
		s.info("new note", "file", name)
	}

	if len(report.Created) > 0 {
		path, err := s.store.WriteManifest(report.Created)
		if err != nil {
			s.warn("manifest write failed", "error", err)
		} else {
			report.ManifestPath = path
			s.info("manifest written", "path", path, "files", len(report.Created))
		}
	}

	s.info("sync finished", "new", len(report.Created), "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func needsTitle(title string) bool {
	return title == "" || title == domain.Untitled
}

func (s *Sync) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Sync) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Sync) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
