package dedao

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/config"
	"github.com/Pandas886/raindrop2gitee/internal/domain"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// maxAccumulated caps title+content growth so a malfunctioning stream
	// cannot grow the buffers without bound.
	maxAccumulated = 1 << 20

	maxLineSize = 1 << 20
)

// Client runs streaming summary sessions against the Dedao notes API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient builds a streaming summary client from configuration.
func NewClient(cfg config.SummaryConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http: &http.Client{
			// Overall deadline for the whole stream; there is no
			// per-chunk heartbeat to watch instead.
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// streamEvent is the outer envelope of one data line.
type streamEvent struct {
	Data struct {
		Msg string `json:"msg"`
	} `json:"data"`
}

// summaryChunk is the inner message carried as a JSON-encoded string inside
// the outer envelope. Both fields are incremental fragments.
type summaryChunk struct {
	SummaryTitle string `json:"summary_title"`
	Content      string `json:"content"`
}

// Summarize posts the target URL and accumulates the streamed summary.
// A non-200 response or transport failure yields a failed result; a stream
// that completes without producing content yields an empty one. Malformed
// lines are dropped individually, never failing the session.
func (c *Client) Summarize(ctx context.Context, targetURL string) domain.SummaryResult {
	body, err := json.Marshal(requestPayload(targetURL))
	if err != nil {
		return failed(fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", strconv.FormatInt(time.Now().UnixMilli(), 10))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failed(fmt.Errorf("request summary: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.warn("summary request rejected", "status", resp.Status, "body", strings.TrimSpace(string(detail)))
		return failed(fmt.Errorf("summary endpoint returned %s", resp.Status))
	}

	title, content := decodeStream(resp.Body)
	if title == "" && content == "" {
		return domain.SummaryResult{Status: domain.SummaryEmpty}
	}

	return domain.SummaryResult{Title: title, Content: content, Status: domain.SummaryOK}
}

// decodeStream consumes data-prefixed event lines and concatenates the title
// and content fragments in arrival order. A read error ends the stream with
// whatever accumulated so far.
func decodeStream(r io.Reader) (string, string) {
	var title, content strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		payload, ok := strings.CutPrefix(scanner.Text(), dataPrefix)
		if !ok {
			continue
		}

		payload = strings.TrimSpace(payload)
		if payload == "" || payload == doneSentinel {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil || event.Data.Msg == "" {
			continue
		}

		var chunk summaryChunk
		if err := json.Unmarshal([]byte(event.Data.Msg), &chunk); err != nil {
			continue
		}

		title.WriteString(chunk.SummaryTitle)
		content.WriteString(chunk.Content)

		if title.Len()+content.Len() > maxAccumulated {
			break
		}
	}

	return title.String(), content.String()
}

func requestPayload(targetURL string) map[string]any {
	return map[string]any{
		"attachments": []map[string]any{
			{
				"size":  100,
				"type":  "link",
				"title": "",
				"url":   targetURL,
			},
		},
		"content":            "",
		"entry_type":         "ai",
		"note_type":          "link",
		"source":             "web",
		"prompt_template_id": "",
	}
}

func failed(err error) domain.SummaryResult {
	return domain.SummaryResult{Status: domain.SummaryFailed, Err: err}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
