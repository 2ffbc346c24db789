package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/config"
	"github.com/Pandas886/raindrop2gitee/internal/ports"
)

// contentPrefixLimit bounds how much summary text is sent for tagging.
const contentPrefixLimit = 2000

const systemPrompt = "你是一个有用的AI助手。"

const tagPrompt = `You are a bot in a read-it-later app and your responsibility is to help with automatic tagging.
Please analyze the text provided below and suggest relevant tags that describe its key themes, topics, and main ideas. The rules are:
- Aim for a variety of tags, including broad categories, specific keywords, and potential sub-genres.
- The tags language must be in chinese.
- If it's a famous website you may also include a tag for the website. If the tag is not generic enough, don't include it.
- The content can include text for cookie consent and privacy policy, ignore those while tagging.
- Aim for 3-5 tags.
- If there are no good tags, leave the array empty.

CONTENT START HERE
{content}
CONTENT END HERE

You must respond in JSON with the key "tags" and the value is an array of string tags.
`

// Client generates tags through the Zhipu chat-completions API.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

var _ ports.Tagger = (*Client)(nil)

// NewClient builds a tagging client from configuration.
func NewClient(cfg config.TaggingConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateTags asks the model for tags describing the content prefix. The
// reply may wrap its JSON object in prose or a code fence, so the first
// top-level brace pair is extracted before decoding.
func (c *Client) GenerateTags(ctx context.Context, content string) ([]string, error) {
	if runes := []rune(content); len(runes) > contentPrefixLimit {
		content = string(runes[:contentPrefixLimit])
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": strings.Replace(tagPrompt, "{content}", content, 1)},
		},
		"stream":      false,
		"temperature": 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tag endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	if len(reply.Choices) == 0 {
		return nil, nil
	}

	return extractTags(reply.Choices[0].Message.Content)
}

// extractTags pulls the first top-level {...} substring out of the reply and
// decodes its tags array.
func extractTags(reply string) ([]string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, nil
	}

	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse embedded tags: %w", err)
	}

	return parsed.Tags, nil
}
