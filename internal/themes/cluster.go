// Package themes groups filtered items into topic buckets for handoff to
// the external summarization service.
package themes

import (
	"sort"
	"strings"

	"github.com/novai/newswire/internal/feed"
)

const (
	// CatchAllTheme collects items no keyword rule claims. Also the
	// title of the synthetic group emitted when nothing else survives.
	CatchAllTheme = "Industry Moves"

	defaultMinMembers = 2
	defaultMaxThemes  = 4
	defaultMaxMembers = 5
	fallbackMembers   = 3
)

// Rule assigns items to a named theme by keyword membership. Rules are
// tested in declaration order; the first match wins.
type Rule struct {
	Name     string
	Keywords []string
}

// DefaultRules returns the built-in theme table.
func DefaultRules() []Rule {
	return []Rule{
		{"AI Models & Research", []string{"gpt", "claude", "gemini", "llm", "model", "training", "research"}},
		{"Robotics & Automation", []string{"robot", "automation", "drone", "autonomous", "humanoid"}},
		{"AI Safety & Regulation", []string{"safety", "regulation", "policy", "ethics", "alignment", "risk"}},
		{"Cybersecurity & Threats", []string{"cyber", "hack", "breach", "security", "vulnerability", "attack"}},
		{"AI in Enterprise", []string{"enterprise", "business", "corporate", "adoption", "deployment"}},
		{"Funding & M&A", []string{"funding", "investment", "acquisition", "ipo", "merger", "capital"}},
	}
}

// Group is one theme bucket with its ordered member items. Analysis is
// filled in by the summarization service when one is configured and
// carried as an opaque string otherwise left empty.
type Group struct {
	Title    string      `json:"title"`
	Items    []feed.Item `json:"items"`
	Analysis string      `json:"analysis,omitempty"`
}

// Options tunes Cluster. Zero values fall back to defaults.
type Options struct {
	Rules      []Rule
	MinMembers int
	MaxThemes  int
	MaxMembers int
}

// Cluster assigns each item to exactly one theme, then prunes: buckets
// under the member minimum are dropped, the largest MaxThemes buckets
// survive sorted by size descending, and each bucket keeps at most
// MaxMembers items (the newest, since input is recency-sorted). When
// nothing survives but items exist, a single catch-all group with the
// first few items is synthesized so downstream always gets a non-empty
// group set.
func Cluster(items []feed.Item, opts Options) []Group {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	minMembers := opts.MinMembers
	if minMembers <= 0 {
		minMembers = defaultMinMembers
	}
	maxThemes := opts.MaxThemes
	if maxThemes <= 0 {
		maxThemes = defaultMaxThemes
	}
	maxMembers := opts.MaxMembers
	if maxMembers <= 0 {
		maxMembers = defaultMaxMembers
	}

	if len(items) == 0 {
		return nil
	}

	buckets := make(map[string][]feed.Item)
	order := append([]Rule(nil), rules...)
	order = append(order, Rule{Name: CatchAllTheme})

	for _, it := range items {
		name := assign(it, rules)
		buckets[name] = append(buckets[name], it)
	}

	groups := make([]Group, 0, len(order))
	for _, rule := range order {
		members := buckets[rule.Name]
		if len(members) < minMembers {
			continue
		}
		groups = append(groups, Group{Title: rule.Name, Items: members})
	}

	// Largest themes first; equal sizes keep rule priority order.
	// Selection and ordering compare full bucket sizes; the member cap
	// applies only to the survivors.
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Items) > len(groups[j].Items)
	})
	if len(groups) > maxThemes {
		groups = groups[:maxThemes]
	}
	for i := range groups {
		if len(groups[i].Items) > maxMembers {
			groups[i].Items = groups[i].Items[:maxMembers]
		}
	}

	if len(groups) == 0 {
		n := fallbackMembers
		if n > len(items) {
			n = len(items)
		}
		groups = []Group{{Title: CatchAllTheme, Items: items[:n]}}
	}
	return groups
}

func assign(it feed.Item, rules []Rule) string {
	text := it.Text()
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Name
			}
		}
	}
	return CatchAllTheme
}
