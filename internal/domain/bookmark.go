package domain

import "time"

// Bookmark is a core entity describing one saved link fetched from Raindrop.
type Bookmark struct {
	ID         int64
	Title      string
	URL        string
	Excerpt    string
	Note       string
	Highlights []string
	Tags       []string
	Cover      string
	Domain     string
	Collection string
	Important  bool

	// Created is the zero time when the upstream timestamp did not parse;
	// CreatedRaw then carries the verbatim string for rendering.
	Created    time.Time
	CreatedRaw string
}

// CreatedDate returns the creation date as YYYY-MM-DD, falling back to the
// raw upstream string when the timestamp never parsed.
func (b Bookmark) CreatedDate() string {
	if !b.Created.IsZero() {
		return b.Created.UTC().Format("2006-01-02")
	}
	return b.CreatedRaw
}

// Untitled marks bookmarks that arrived without a usable title.
const Untitled = "Untitled"
