package pagemeta

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

// Resolver fetches a page once and pulls its title out of the HTML. Used as
// a fallback for bookmarks that arrive untitled.
type Resolver struct {
	client *http.Client
}

var _ ports.PageMetaResolver = (*Resolver)(nil)

// NewResolver wires an HTTP client; pass nil for a 10s-timeout default.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{client: client}
}

// Title returns the page's og:title, falling back to the <title> element.
// An empty string with nil error means the page simply has no title.
func (r *Resolver) Title(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "raindrop2gitee/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := collapse(og); title != "" {
			return title, nil
		}
	}

	return collapse(doc.Find("title").First().Text()), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
