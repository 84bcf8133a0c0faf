package themes

import (
	"testing"

	"github.com/novai/newswire/internal/feed"
)

func mk(title string) feed.Item {
	return feed.Item{Title: title}
}

func TestMinimumMemberRule(t *testing.T) {
	// One robotics item: its bucket is dropped. Two model items: kept.
	items := []feed.Item{
		mk("New llm benchmark results published"),
		mk("Claude gains new coding abilities"),
		mk("Warehouse robot deployment expands"),
	}

	groups := Cluster(items, Options{})
	if len(groups) != 1 {
		t.Fatalf("expected 1 surviving group, got %d: %+v", len(groups), groups)
	}
	if groups[0].Title != "AI Models & Research" {
		t.Errorf("unexpected theme %q", groups[0].Title)
	}
	if len(groups[0].Items) != 2 {
		t.Errorf("expected 2 members, got %d", len(groups[0].Items))
	}
}

func TestExactlyTwoMembersKept(t *testing.T) {
	items := []feed.Item{
		mk("Factory robot rollout accelerates"),
		mk("Autonomous drone fleet certified"),
	}
	groups := Cluster(items, Options{})
	if len(groups) != 1 || groups[0].Title != "Robotics & Automation" {
		t.Fatalf("expected robotics group, got %+v", groups)
	}
}

func TestFirstMatchingRuleWins(t *testing.T) {
	// Matches both the models rule ("model") and the funding rule
	// ("funding"); the earlier rule claims it.
	items := []feed.Item{
		mk("Model startup lands funding round"),
		mk("Another model funding story"),
	}
	groups := Cluster(items, Options{})
	if len(groups) != 1 || groups[0].Title != "AI Models & Research" {
		t.Fatalf("expected first rule to win, got %+v", groups)
	}
}

func TestMaxThemesAndSizeOrder(t *testing.T) {
	var items []feed.Item
	// 3 model items, 2 each for four more themes: five candidates.
	items = append(items,
		mk("llm progress one"), mk("llm progress two"), mk("llm progress three"),
		mk("robot deployment a"), mk("robot deployment b"),
		mk("safety rules tighten a"), mk("safety rules tighten b"),
		mk("data breach report a"), mk("data breach report b"),
		mk("enterprise adoption a"), mk("enterprise adoption b"),
	)

	groups := Cluster(items, Options{})
	if len(groups) != 4 {
		t.Fatalf("expected top 4 themes, got %d", len(groups))
	}
	if groups[0].Title != "AI Models & Research" || len(groups[0].Items) != 3 {
		t.Errorf("largest theme must come first, got %q with %d", groups[0].Title, len(groups[0].Items))
	}
	for i := 1; i < len(groups); i++ {
		if len(groups[i].Items) > len(groups[i-1].Items) {
			t.Errorf("groups not sorted by size at %d", i)
		}
	}
	// Equal-sized groups keep rule priority order; Enterprise is the
	// lowest-priority candidate and must be the one cut.
	for _, g := range groups {
		if g.Title == "AI in Enterprise" {
			t.Errorf("lowest-priority equal-size theme should have been cut")
		}
	}
}

func TestMemberCap(t *testing.T) {
	var items []feed.Item
	for i := 0; i < 8; i++ {
		items = append(items, feed.Item{Title: "llm item", ID: string(rune('a' + i))})
	}

	groups := Cluster(items, Options{})
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if len(groups[0].Items) != 5 {
		t.Errorf("expected member cap of 5, got %d", len(groups[0].Items))
	}
	// Input is recency-sorted, so the first (newest) items survive.
	if groups[0].Items[0].ID != "a" {
		t.Errorf("cap must drop the oldest members, got first ID %q", groups[0].Items[0].ID)
	}
}

func TestSizeOrderUsesFullBucketSize(t *testing.T) {
	// Both buckets exceed the member cap; the genuinely larger one must
	// still sort first even though both deliver 5 members.
	var items []feed.Item
	for i := 0; i < 6; i++ {
		items = append(items, mk("llm progress update"))
	}
	for i := 0; i < 7; i++ {
		items = append(items, mk("funding round announced"))
	}

	groups := Cluster(items, Options{})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Title != "Funding & M&A" {
		t.Errorf("larger pre-cap bucket must sort first, got %q", groups[0].Title)
	}
	for _, g := range groups {
		if len(g.Items) != 5 {
			t.Errorf("%s: expected capped members, got %d", g.Title, len(g.Items))
		}
	}
}

func TestCatchAllBucket(t *testing.T) {
	items := []feed.Item{
		mk("Quiet week in the sector"),
		mk("Misc industry notes"),
	}
	groups := Cluster(items, Options{})
	if len(groups) != 1 || groups[0].Title != CatchAllTheme {
		t.Fatalf("expected catch-all group, got %+v", groups)
	}
}

func TestFallbackGroup(t *testing.T) {
	// A single unmatched item survives no bucket; the synthesized
	// fallback still delivers one non-empty group.
	items := []feed.Item{mk("Lone unmatched story")}
	groups := Cluster(items, Options{})
	if len(groups) != 1 {
		t.Fatalf("expected fallback group, got %d", len(groups))
	}
	if groups[0].Title != CatchAllTheme || len(groups[0].Items) != 1 {
		t.Errorf("unexpected fallback: %+v", groups[0])
	}
}

func TestEmptyInput(t *testing.T) {
	if groups := Cluster(nil, Options{}); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}
}
