package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
)

const (
	// FilenameTitleMax bounds the sanitized title portion of a note filename.
	FilenameTitleMax = 60

	fallbackName = "untitled"
)

var (
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Sanitize turns an arbitrary title into a filesystem-safe name of at most
// max runes. Truncation backs up to the last whitespace boundary so a word
// is never cut in half; an empty result falls back to "untitled".
func Sanitize(text string, max int) string {
	text = illegalChars.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, ". ")

	if runes := []rune(text); len(runes) > max {
		text = string(runes[:max])
		if i := strings.LastIndex(text, " "); i > 0 {
			text = text[:i]
		}
		text = strings.Trim(text, ". ")
	}

	if text == "" {
		return fallbackName
	}
	return text
}

// NoteFilename derives the deterministic flat filename for a bookmark:
// {created_date}-{sanitized_title}.md. Filename existence is the sole dedup
// key, so this must stay a pure function of the created date and title.
func NoteFilename(b domain.Bookmark, now time.Time) string {
	date := b.Created
	if date.IsZero() {
		date = now
	}
	return fmt.Sprintf("%s-%s.md", date.UTC().Format("2006-01-02"), Sanitize(b.Title, FilenameTitleMax))
}
