package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/Pandas886/raindrop2gitee/internal/domain"
)

func fullBookmark() domain.Bookmark {
	return domain.Bookmark{
		ID:         42,
		Title:      "Go Proverbs",
		URL:        "https://go-proverbs.github.io/",
		Excerpt:    "A collection of sayings.",
		Note:       "Worth rereading.",
		Highlights: []string{"Clear is better than clever.", "Errors are values."},
		Tags:       []string{"golang", "编程"},
		Cover:      "https://example.com/cover.png",
		Domain:     "go-proverbs.github.io",
		Collection: "Programming",
		Important:  true,
		Created:    time.Date(2026, time.January, 15, 8, 30, 0, 0, time.UTC),
	}
}

func TestRenderFrontMatter(t *testing.T) {
	t.Parallel()

	doc := Render(fullBookmark())

	want := []string{
		"---\n",
		"title: \"Go Proverbs\"\n",
		"url: https://go-proverbs.github.io/\n",
		"domain: go-proverbs.github.io\n",
		"created: 2026-01-15\n",
		"source: raindrop\n",
		"folder: Programming\n",
		"tags:\n  - golang\n  - 编程\n",
		"favorite: true\n",
	}
	for _, fragment := range want {
		if !strings.Contains(doc, fragment) {
			t.Fatalf("front matter missing %q in:\n%s", fragment, doc)
		}
	}

	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("document does not start with front matter")
	}
}

func TestRenderBodySections(t *testing.T) {
	t.Parallel()

	doc := Render(fullBookmark())

	want := []string{
		"# Go Proverbs",
		"🔗 [https://go-proverbs.github.io/](https://go-proverbs.github.io/)",
		"📁 **分类**: Programming",
		"📅 **创建**: 2026-01-15",
		"## 📝 摘要",
		"A collection of sayings.",
		"## 💡 我的笔记",
		"Worth rereading.",
		"## ✨ 高亮标注",
		"> Clear is better than clever.",
		"> Errors are values.",
		"## 🖼️ 封面",
		"![cover](https://example.com/cover.png)",
	}

	last := -1
	for _, fragment := range want {
		i := strings.Index(doc, fragment)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", fragment, doc)
		}
		if i < last {
			t.Fatalf("section %q out of order", fragment)
		}
		last = i
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	t.Parallel()

	doc := Render(domain.Bookmark{
		Title:   "Bare",
		URL:     "https://example.com",
		Created: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	for _, heading := range []string{"## 📝 摘要", "## 💡 我的笔记", "## ✨ 高亮标注", "## 🖼️ 封面", "tags:", "favorite:"} {
		if strings.Contains(doc, heading) {
			t.Fatalf("empty section %q should be omitted:\n%s", heading, doc)
		}
	}

	if !strings.Contains(doc, "folder: Unsorted") {
		t.Fatalf("missing default folder:\n%s", doc)
	}
}

func TestRenderKeepsUnparsableDate(t *testing.T) {
	t.Parallel()

	doc := Render(domain.Bookmark{Title: "x", CreatedRaw: "someday"})
	if !strings.Contains(doc, "created: someday\n") {
		t.Fatalf("raw date not kept:\n%s", doc)
	}
}

func TestSummarySection(t *testing.T) {
	t.Parallel()

	section := SummarySection("核心观点", "正文内容", []string{"技术", "阅读"})

	want := "\n\n" + SummaryMarker + "\n\n**核心观点**\n\n正文内容\n\n**AI 标签**: #技术 #阅读\n"
	if section != want {
		t.Fatalf("unexpected section:\n%q\nwant:\n%q", section, want)
	}
}

func TestSummarySectionWithoutTitleOrTags(t *testing.T) {
	t.Parallel()

	section := SummarySection("", "只有正文", nil)

	want := "\n\n" + SummaryMarker + "\n\n只有正文\n"
	if section != want {
		t.Fatalf("unexpected section:\n%q", section)
	}

	if !HasSummary(section) {
		t.Fatalf("marker not detected in rendered section")
	}
}
