package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/markdown"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

// EnrichDeps wires the adapters driven by the enrichment pass. Tagger may be
// nil; enrichment then appends summaries without a tag line.
type EnrichDeps struct {
	Store      ports.NoteStore
	Summarizer ports.Summarizer
	Tagger     ports.Tagger
	Delay      time.Duration
	Logger     *slog.Logger
}

// Enrich scans recently modified notes and appends an AI summary section to
// every note that does not carry one yet.
type Enrich struct {
	store      ports.NoteStore
	summarizer ports.Summarizer
	tagger     ports.Tagger
	delay      time.Duration
	logger     *slog.Logger
}

// EnrichReport summarizes one enrichment pass.
type EnrichReport struct {
	Scanned   int
	Processed int
}

// NewEnrich constructs the enrichment driver.
func NewEnrich(deps EnrichDeps) *Enrich {
	return &Enrich{
		store:      deps.Store,
		summarizer: deps.Summarizer,
		tagger:     deps.Tagger,
		delay:      deps.Delay,
		logger:     deps.Logger,
	}
}

// Run walks notes modified within the window. Notes already carrying the
// summary marker, notes without an extractable URL, and notes for which the
// summarizer produced nothing are all left byte-for-byte unchanged.
func (e *Enrich) Run(ctx context.Context, window time.Duration) (EnrichReport, error) {
	var report EnrichReport

	if e.store == nil || e.summarizer == nil {
		return report, fmt.Errorf("enrichment driver is not fully wired")
	}

	names, err := e.store.ListRecent(window)
	if err != nil {
		return report, fmt.Errorf("list recent notes: %w", err)
	}

	e.info("enrichment started", "window_days", int(window.Hours()/24), "candidates", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		doc, err := e.store.Read(name)
		if err != nil {
			e.warn("read failed", "file", name, "error", err)
			continue
		}
		report.Scanned++

		if markdown.HasSummary(doc) {
			continue
		}

		url := markdown.SourceURL(doc)
		if url == "" {
			e.info("skip note without URL", "file", name)
			continue
		}

		e.info("requesting summary", "file", name, "url", url)

		result := e.summarizer.Summarize(ctx, url)
		if !result.HasContent() {
			e.info("skip note, no summary produced", "file", name, "status", result.Status, "error", result.Err)
			continue
		}

		var tags []string
		if e.tagger != nil {
			if tags, err = e.tagger.GenerateTags(ctx, result.Content); err != nil {
				e.warn("tag generation failed", "file", name, "error", err)
				tags = nil
			} else if len(tags) > 0 {
				e.info("tags generated", "file", name, "tags", tags)
			}
		}

		if err := e.store.Append(name, markdown.SummarySection(result.Title, result.Content, tags)); err != nil {
			e.warn("append failed", "file", name, "error", err)
			continue
		}

		report.Processed++
		e.info("summary appended", "file", name)

		// Fixed throttle between upstream calls.
		if e.delay > 0 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	e.info("enrichment finished", "scanned", report.Scanned, "processed", report.Processed)
	return report, nil
}

func (e *Enrich) info(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e *Enrich) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
