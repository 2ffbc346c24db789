package markdown

import (
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

var bodyLinkLine = regexp.MustCompile(`🔗 \[(.*?)\]\((http.*?)\)`)

type noteMeta struct {
	URL string `yaml:"url"`
}

// SourceURL extracts the bookmark URL from a rendered note: the front-matter
// url field when present, otherwise the 🔗 link line in the body. Returns ""
// when the note carries neither.
func SourceURL(doc string) string {
	var meta noteMeta
	if _, err := frontmatter.Parse(strings.NewReader(doc), &meta); err == nil {
		if url := strings.TrimSpace(meta.URL); url != "" {
			return url
		}
	}

	if m := bodyLinkLine.FindStringSubmatch(doc); m != nil {
		return strings.TrimSpace(m[2])
	}

	return ""
}
