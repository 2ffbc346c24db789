package ports

import (
	"context"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
)

// BookmarkSource pulls recently created bookmarks from the upstream service.
// A non-nil error may accompany a partially collected slice.
type BookmarkSource interface {
	FetchRecent(ctx context.Context, window time.Duration) ([]domain.Bookmark, error)
}

// NoteStore persists rendered notes in the output directory and exposes the
// scans the enrichment pass needs. Names are bare filenames, never paths.
type NoteStore interface {
	Exists(name string) bool
	Write(name, content string) error
	Read(name string) (string, error)
	Append(name, content string) error
	ListRecent(window time.Duration) ([]string, error)
	WriteManifest(names []string) (string, error)
}

// Summarizer runs one streaming summary session for a source URL. Failures
// are reported through the result status, never as a bare error.
type Summarizer interface {
	Summarize(ctx context.Context, url string) domain.SummaryResult
}

// Tagger derives a small set of tags from summary content.
type Tagger interface {
	GenerateTags(ctx context.Context, content string) ([]string, error)
}

// PageMetaResolver fetches page metadata for bookmarks missing a title.
type PageMetaResolver interface {
	Title(ctx context.Context, url string) (string, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
