package raindrop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/config"
)

func listingItem(id int64, title string, created time.Time) map[string]any {
	return map[string]any{
		"_id":     id,
		"title":   title,
		"link":    fmt.Sprintf("https://example.com/%d", id),
		"created": created.UTC().Format(time.RFC3339),
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(config.RaindropConfig{BaseURL: serverURL, Token: "test-token"}, nil)
}

func TestFetchRecentStopsAtCutoff(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if r.URL.Query().Get("sort") != "-created" {
			t.Errorf("missing sort param, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token")
		}

		items := []map[string]any{
			listingItem(1, "fresh one", now.Add(-1*time.Hour)),
			listingItem(2, "fresh two", now.Add(-2*time.Hour)),
			listingItem(3, "stale", now.Add(-10*24*time.Hour)),
			listingItem(4, "staler", now.Add(-11*24*time.Hour)),
			listingItem(5, "stalest", now.Add(-12*24*time.Hour)),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.FetchRecent(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected bookmarks: %+v", got)
	}
	if n := requests.Load(); n != 1 {
		t.Fatalf("expected a single page request, got %d", n)
	}
}

func TestFetchRecentPaginatesUntilEmptyPage(t *testing.T) {
	t.Parallel()

	now := time.Now()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		if r.URL.Query().Get("page") == "0" {
			items = []map[string]any{listingItem(1, "only one", now.Add(-1*time.Hour))}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.FetchRecent(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(got))
	}
}

func TestFetchRecentReturnsPartialOnFailure(t *testing.T) {
	t.Parallel()

	now := time.Now()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			items := []map[string]any{listingItem(1, "first", now.Add(-1*time.Hour))}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.FetchRecent(context.Background(), 7*24*time.Hour)
	if err == nil {
		t.Fatalf("expected error for failing second page")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 partial bookmark, got %d", len(got))
	}
}

func TestFetchRecentRetriesAfterRateLimit(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var items []map[string]any
		if r.URL.Query().Get("page") == "0" {
			items = []map[string]any{listingItem(1, "after retry", now.Add(-25*24*time.Hour))}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.FetchRecent(context.Background(), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "after retry" {
		t.Fatalf("unexpected result after retry: %+v", got)
	}
}

func TestConvertItemHighlightShapes(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"_id": 9,
		"title": "mixed highlights",
		"link": "https://example.com/9",
		"created": "2026-04-01T10:00:00Z",
		"highlights": ["plain string", {"text": "object form"}, {"text": ""}]
	}`)

	var item apiItem
	if err := json.Unmarshal(raw, &item); err != nil {
		t.Fatalf("unmarshal item: %v", err)
	}

	b := convertItem(item)
	if len(b.Highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %v", b.Highlights)
	}
	if b.Highlights[0] != "plain string" || b.Highlights[1] != "object form" {
		t.Fatalf("unexpected highlights: %v", b.Highlights)
	}
	if b.Created.IsZero() {
		t.Fatalf("created not parsed")
	}
}
