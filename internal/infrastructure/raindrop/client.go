package raindrop

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/config"
	"github.com/Pandas886/raindrop2gitee/internal/domain"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

const (
	pageSize          = 50
	maxRetryAfterWait = 30 * time.Second
)

// Client fetches bookmarks from the Raindrop REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.BookmarkSource = (*Client)(nil)

// NewClient wires an authenticated listing client.
func NewClient(cfg config.RaindropConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// FetchRecent pages through the listing (newest first) and collects every
// bookmark created within the window. The first item older than the cutoff
// ends the whole fetch; the descending sort makes that safe. On a transport
// failure the bookmarks collected so far are returned alongside the error so
// the caller can proceed with a partial result.
func (c *Client) FetchRecent(ctx context.Context, window time.Duration) ([]domain.Bookmark, error) {
	cutoff := time.Now().Add(-window)
	var collected []domain.Bookmark

	for page := 0; ; page++ {
		items, err := c.fetchPage(ctx, page)
		if err != nil {
			return collected, fmt.Errorf("fetch page %d: %w", page, err)
		}

		if len(items) == 0 {
			break
		}

		c.debug("page fetched", "page", page, "items", len(items))

		for _, item := range items {
			b := convertItem(item)
			if !b.Created.IsZero() && b.Created.Before(cutoff) {
				return collected, nil
			}
			collected = append(collected, b)
		}
	}

	return collected, nil
}

// fetchPage requests one fixed-size page, honoring a single Retry-After wait
// when the API answers 429.
func (c *Client) fetchPage(ctx context.Context, page int) ([]apiItem, error) {
	resp, err := c.get(ctx, page)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(resp)
		resp.Body.Close()
		c.debug("rate limited", "page", page, "wait", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if resp, err = c.get(ctx, page); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("raindrop returned %s", resp.Status)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return payload.Items, nil
}

func (c *Client) get(ctx context.Context, page int) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/raindrops/0", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perpage", strconv.Itoa(pageSize))
	query.Set("sort", "-created")
	req.URL.RawQuery = query.Encode()

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}

	return resp, nil
}

func retryAfter(resp *http.Response) time.Duration {
	wait := 5 * time.Second
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > maxRetryAfterWait {
		wait = maxRetryAfterWait
	}
	return wait
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
