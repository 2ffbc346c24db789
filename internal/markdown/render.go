package markdown

import (
	"fmt"
	"strings"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
)

// SummaryMarker is the heading that flags a note as already enriched.
const SummaryMarker = "## 🤖 AI 深度总结"

// Render produces the full Markdown document for a bookmark: YAML front
// matter followed by the fixed body sections. Sections without content are
// omitted entirely.
func Render(b domain.Bookmark) string {
	title := b.Title
	if title == "" {
		title = domain.Untitled
	}
	folder := b.Collection
	if folder == "" {
		folder = "Unsorted"
	}
	created := b.CreatedDate()

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", title)
	fmt.Fprintf(&sb, "url: %s\n", b.URL)
	fmt.Fprintf(&sb, "domain: %s\n", b.Domain)
	fmt.Fprintf(&sb, "created: %s\n", created)
	sb.WriteString("source: raindrop\n")
	fmt.Fprintf(&sb, "folder: %s\n", folder)
	if len(b.Tags) > 0 {
		sb.WriteString("tags:\n")
		for _, tag := range b.Tags {
			fmt.Fprintf(&sb, "  - %s\n", tag)
		}
	}
	if b.Important {
		sb.WriteString("favorite: true\n")
	}
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "🔗 [%s](%s)\n", b.URL, b.URL)
	fmt.Fprintf(&sb, "📁 **分类**: %s\n", folder)
	fmt.Fprintf(&sb, "📅 **创建**: %s\n", created)

	if b.Excerpt != "" {
		sb.WriteString("\n## 📝 摘要\n\n")
		sb.WriteString(b.Excerpt)
		sb.WriteString("\n")
	}

	if b.Note != "" {
		sb.WriteString("\n## 💡 我的笔记\n\n")
		sb.WriteString(b.Note)
		sb.WriteString("\n")
	}

	if hasHighlightText(b.Highlights) {
		sb.WriteString("\n## ✨ 高亮标注\n")
		for _, h := range b.Highlights {
			if h == "" {
				continue
			}
			fmt.Fprintf(&sb, "\n> %s\n", h)
		}
	}

	if b.Cover != "" {
		sb.WriteString("\n## 🖼️ 封面\n\n")
		fmt.Fprintf(&sb, "![cover](%s)\n", b.Cover)
	}

	return sb.String()
}

func hasHighlightText(highlights []string) bool {
	for _, h := range highlights {
		if h != "" {
			return true
		}
	}
	return false
}

// SummarySection builds the enrichment block appended to an existing note:
// marker heading, optional bold title line, content, optional tag line.
func SummarySection(title, content string, tags []string) string {
	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(SummaryMarker)
	sb.WriteString("\n\n")
	if title != "" {
		fmt.Fprintf(&sb, "**%s**\n\n", title)
	}
	sb.WriteString(content)
	sb.WriteString("\n")
	if len(tags) > 0 {
		hashed := make([]string, len(tags))
		for i, t := range tags {
			hashed[i] = "#" + t
		}
		fmt.Fprintf(&sb, "\n**AI 标签**: %s\n", strings.Join(hashed, " "))
	}
	return sb.String()
}

// HasSummary reports whether a note already carries the enrichment marker.
func HasSummary(doc string) bool {
	return strings.Contains(doc, SummaryMarker)
}
