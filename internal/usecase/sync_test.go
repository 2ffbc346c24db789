package usecase

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
	"github.com/Pandas886/raindrop2gitee/internal/infrastructure/notes"
)

type fakeSource struct {
	bookmarks []domain.Bookmark
	err       error
}

func (f *fakeSource) FetchRecent(ctx context.Context, window time.Duration) ([]domain.Bookmark, error) {
	return f.bookmarks, f.err
}

type fakeMeta struct {
	title string
}

func (f *fakeMeta) Title(ctx context.Context, url string) (string, error) {
	if f.title == "" {
		return "", errors.New("no title")
	}
	return f.title, nil
}

func testBookmarks() []domain.Bookmark {
	created := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Bookmark{
		{ID: 1, Title: "First Article", URL: "https://example.com/1", Created: created},
		{ID: 2, Title: "Second Article", URL: "https://example.com/2", Created: created.Add(time.Hour)},
	}
}

func newTestStore(t *testing.T) *notes.Store {
	t.Helper()
	store, err := notes.NewStore(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	return store
}

func TestSyncRunIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sync := NewSync(SyncDeps{
		Source: &fakeSource{bookmarks: testBookmarks()},
		Store:  store,
	})

	first, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if len(first.Created) != 2 {
		t.Fatalf("expected 2 new notes, got %v", first.Created)
	}

	second, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if len(second.Created) != 0 {
		t.Fatalf("second run created files: %v", second.Created)
	}
	if second.Skipped != 2 {
		t.Fatalf("expected 2 skips, got %d", second.Skipped)
	}
}

func TestSyncRunWritesManifestOnlyWhenCreating(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sync := NewSync(SyncDeps{
		Source: &fakeSource{bookmarks: testBookmarks()},
		Store:  store,
	})

	first, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if first.ManifestPath == "" {
		t.Fatalf("manifest path not reported")
	}

	data, err := os.ReadFile(first.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(data) != "2026-06-01-First Article.md\n2026-06-01-Second Article.md\n" {
		t.Fatalf("unexpected manifest: %q", data)
	}

	second, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if second.ManifestPath != "" {
		t.Fatalf("manifest reported for an all-skip run")
	}
}

func TestSyncRunContinuesOnPartialFetch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sync := NewSync(SyncDeps{
		Source: &fakeSource{bookmarks: testBookmarks()[:1], err: errors.New("page 1 unavailable")},
		Store:  store,
	})

	report, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(report.Created) != 1 {
		t.Fatalf("partial result not processed: %+v", report)
	}
}

func TestSyncRunResolvesMissingTitles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	created := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)
	sync := NewSync(SyncDeps{
		Source: &fakeSource{bookmarks: []domain.Bookmark{
			{ID: 3, Title: "", URL: "https://example.com/untitled", Created: created},
		}},
		Store: store,
		Meta:  &fakeMeta{title: "Resolved Title"},
	})

	report, err := sync.Run(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(report.Created) != 1 || report.Created[0] != "2026-06-02-Resolved Title.md" {
		t.Fatalf("resolved title not used: %v", report.Created)
	}
}
