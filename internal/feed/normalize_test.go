package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/novai/newswire/internal/config"
)

func TestItemID(t *testing.T) {
	id1 := itemID("openai", "https://example.com/post-1")
	id2 := itemID("openai", "https://example.com/post-2")
	id1again := itemID("openai", "https://example.com/post-1")
	other := itemID("deepmind", "https://example.com/post-1")

	if id1 == id2 {
		t.Error("different refs should produce different IDs")
	}
	if id1 != id1again {
		t.Error("same source+ref should produce same ID")
	}
	if id1 == other {
		t.Error("same ref from different sources should produce different IDs")
	}
	if len(id1) != 32 {
		t.Errorf("expected 32-char hex string, got %d chars: %s", len(id1), id1)
	}
}

func TestItemIDNoRef(t *testing.T) {
	// No guid and no link: ids must still be unique.
	a := itemID("src", "")
	b := itemID("src", "")
	if a == b {
		t.Error("ref-less entries should get random, distinct IDs")
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"A&amp;B &lt;ok&gt;", "A&B <ok>"},
		{"Caf&eacute; release", "Café release"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"OpenAI Releases GPT-5", "openai-releases-gpt-5"},
		{"Hello,   World!!", "hello-world"},
		{"", "news"},
		{"***", "news"},
	}
	for _, tt := range tests {
		got := slugify(tt.input)
		if got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugifyLengthCap(t *testing.T) {
	got := slugify(strings.Repeat("word ", 20))
	if len(got) > topicTagMaxLen {
		t.Errorf("slug exceeds %d chars: %q", topicTagMaxLen, got)
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Errorf("slug has dangling separator: %q", got)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	src := config.Source{ID: "src", Name: "Source", Category: "Research", Priority: 7}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	it := normalize(src, &gofeed.Item{}, now)

	if it.Title != "Untitled" {
		t.Errorf("expected placeholder title, got %q", it.Title)
	}
	if !it.PublishedAt.Equal(now) {
		t.Errorf("expected fetch time for missing date, got %v", it.PublishedAt)
	}
	if it.Category != "research" {
		t.Errorf("expected lower-cased category, got %q", it.Category)
	}
	if it.ImportanceScore != 70 {
		t.Errorf("expected priority*10, got %d", it.ImportanceScore)
	}
	if it.Summary != "" {
		t.Errorf("expected empty summary, got %q", it.Summary)
	}
}

func TestNormalizePrefersPublishedDate(t *testing.T) {
	src := config.Source{ID: "src", Name: "Source", Category: "ai", Priority: 5}
	now := time.Now()
	pub := now.Add(-3 * time.Hour)
	upd := now.Add(-1 * time.Hour)

	it := normalize(src, &gofeed.Item{Title: "t", PublishedParsed: &pub, UpdatedParsed: &upd}, now)
	if !it.PublishedAt.Equal(pub) {
		t.Errorf("expected published date, got %v", it.PublishedAt)
	}

	it = normalize(src, &gofeed.Item{Title: "t", UpdatedParsed: &upd}, now)
	if !it.PublishedAt.Equal(upd) {
		t.Errorf("expected updated date fallback, got %v", it.PublishedAt)
	}
}

func TestNormalizeSummaryBounded(t *testing.T) {
	src := config.Source{ID: "src", Name: "Source", Category: "ai", Priority: 5}
	long := "<p>" + strings.Repeat("word ", 200) + "</p>"

	it := normalize(src, &gofeed.Item{Title: "t", Description: long}, time.Now())
	if n := len([]rune(it.Summary)); n > summaryMaxLen {
		t.Errorf("summary exceeds %d chars: %d", summaryMaxLen, n)
	}
	if strings.Contains(it.Summary, "<p>") {
		t.Error("summary still contains markup")
	}
}
