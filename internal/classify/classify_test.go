package classify

import (
	"testing"

	"github.com/novai/newswire/internal/feed"
)

func item(title, summary, category string) feed.Item {
	return feed.Item{Title: title, Summary: summary, Category: category}
}

func TestAcceptGeneralRule(t *testing.T) {
	tests := []struct {
		name string
		item feed.Item
		want bool
	}{
		{
			name: "two strong signals",
			item: item("New large language model beats every benchmark", "The transformer architecture scales further", "ai"),
			want: true,
		},
		{
			name: "one strong signal plus flagship org",
			item: item("OpenAI previews its next language model", "", "ai"),
			want: true,
		},
		{
			name: "one strong signal alone is not enough",
			item: item("Researchers study neural network behavior", "", "ai"),
			want: false,
		},
		{
			name: "weak signal plus flagship org",
			item: item("Microsoft announces cloud acquisition", "", "ai"),
			want: true,
		},
		{
			name: "weak signal without flagship org",
			item: item("Regional startup closes funding round", "", "ai"),
			want: false,
		},
		{
			name: "flagship org alone is not enough",
			item: item("Apple opens a new retail store", "", "ai"),
			want: false,
		},
		{
			name: "generic news with no signals",
			item: item("City council approves new park budget", "", "ai"),
			want: false,
		},
		{
			name: "empty text",
			item: item("", "", "ai"),
			want: false,
		},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Accept(tt.item); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.item.Title, got, tt.want)
			}
		})
	}
}

func TestHardExclusionPrecedence(t *testing.T) {
	c := Default()

	// Excluded topics reject even when strong signals and flagship orgs
	// are present in the same text.
	it := item("NVIDIA AI chip unveiled at basketball halftime show", "", "ai")
	if c.Accept(it) {
		t.Error("hard exclusion must override strong signals and flagship orgs")
	}

	it = item("OpenAI announces Black Friday promo for ChatGPT", "", "ai")
	if c.Accept(it) {
		t.Error("promotional spam must be rejected regardless of signals")
	}
}

func TestHardExclusionTokenBoundary(t *testing.T) {
	c := Default()

	// "deal" is excluded as a whole token only; "dealing" passes through
	// to the acceptance rules.
	it := item("Anthropic dealing with surging Claude demand", "", "ai")
	if !c.Accept(it) {
		t.Error("substring of an excluded single word must not trigger exclusion")
	}
}

func TestCategoryPolicies(t *testing.T) {
	tests := []struct {
		name string
		item feed.Item
		want bool
	}{
		{
			name: "robotics term accepted under robotics category",
			item: item("New actuator design improves walking gait", "", "robotics"),
			want: true,
		},
		{
			name: "same robotics item rejected under default rule",
			item: item("New actuator design improves walking gait", "", "ai"),
			want: false,
		},
		{
			name: "robotics category still needs a robotics term",
			item: item("Quarterly newsletter roundup", "", "robotics"),
			want: false,
		},
		{
			name: "market needs financial and tech terms together",
			item: item("Semiconductor stocks surge after earnings report", "", "market"),
			want: true,
		},
		{
			name: "market with finance but no tech term",
			item: item("Bond markets rally on strong earnings", "", "market"),
			want: false,
		},
		{
			name: "market with tech but no finance term",
			item: item("Semiconductor fab expands production", "", "market"),
			want: false,
		},
		{
			name: "tooling term accepted under tools category",
			item: item("New compiler release cuts build times in half", "", "tools"),
			want: true,
		},
		{
			name: "tools category still needs a tooling term",
			item: item("Weekly roundup of opinions", "", "tools"),
			want: false,
		},
		{
			name: "hard exclusion still wins inside a category policy",
			item: item("Robot mascot performs at basketball game", "", "robotics"),
			want: false,
		},
	}

	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Accept(tt.item); got != tt.want {
				t.Errorf("Accept(%q, category=%s) = %v, want %v", tt.item.Title, tt.item.Category, got, tt.want)
			}
		})
	}
}

func TestMatchCountDistinctKeywords(t *testing.T) {
	text := "gpu gpu gpu"
	tokens := tokenize(text)
	if got := matchCount(text, tokens, []string{"gpu"}); got != 1 {
		t.Errorf("repeated keyword should count once, got %d", got)
	}
}
