package raindrop

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
)

// listResponse is the raw paginated listing payload.
type listResponse struct {
	Items []apiItem `json:"items"`
}

type apiItem struct {
	ID         int64          `json:"_id"`
	Title      string         `json:"title"`
	Link       string         `json:"link"`
	Excerpt    string         `json:"excerpt"`
	Note       string         `json:"note"`
	Highlights []apiHighlight `json:"highlights"`
	Tags       []string       `json:"tags"`
	Created    string         `json:"created"`
	Cover      string         `json:"cover"`
	Domain     string         `json:"domain"`
	Important  bool           `json:"important"`
	Collection apiCollection  `json:"collection"`
}

type apiCollection struct {
	Title string `json:"title"`
}

// apiHighlight accepts both highlight shapes the API produces: a bare string
// or an object carrying a text field.
type apiHighlight struct {
	Text string
}

func (h *apiHighlight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		h.Text = s
		return nil
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	h.Text = obj.Text
	return nil
}

func convertItem(item apiItem) domain.Bookmark {
	b := domain.Bookmark{
		ID:         item.ID,
		Title:      item.Title,
		URL:        item.Link,
		Excerpt:    strings.TrimSpace(item.Excerpt),
		Note:       strings.TrimSpace(item.Note),
		Tags:       item.Tags,
		Cover:      strings.TrimSpace(item.Cover),
		Domain:     item.Domain,
		Collection: item.Collection.Title,
		Important:  item.Important,
		CreatedRaw: item.Created,
	}

	if t, err := time.Parse(time.RFC3339, item.Created); err == nil {
		b.Created = t
	}

	for _, h := range item.Highlights {
		if h.Text != "" {
			b.Highlights = append(b.Highlights, h.Text)
		}
	}

	return b
}
