// Package classify decides whether a normalized item belongs in the
// aggregate stream. The policy is two-tier: a hard exclusion list that
// always wins, then a category-aware keyword acceptance rule.
package classify

import (
	"strings"
	"unicode"

	"github.com/novai/newswire/internal/feed"
)

// Classifier evaluates items against a fixed rule set. Safe for
// concurrent use; the rules are never mutated after construction.
type Classifier struct {
	rules Rules
}

func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a Classifier using the built-in policy.
func Default() *Classifier {
	return New(DefaultRules())
}

// Accept reports whether the item is domain-relevant. Hard exclusions
// take absolute precedence: an item naming both a flagship org and an
// excluded topic is rejected. Output is strictly boolean; there is no
// soft-accept state.
func (c *Classifier) Accept(item feed.Item) bool {
	text := item.Text()
	if text == "" {
		return false
	}
	tokens := tokenize(text)

	if matchCount(text, tokens, c.rules.HardExclusions) > 0 {
		return false
	}

	if policy, ok := c.rules.CategoryPolicies[item.Category]; ok {
		return policy.matches(text, tokens)
	}

	strong := matchCount(text, tokens, c.rules.StrongSignals)
	if strong >= 2 {
		return true
	}

	flagship := matchCount(text, tokens, c.rules.FlagshipOrgs) > 0
	if strong >= 1 && flagship {
		return true
	}
	if flagship && matchCount(text, tokens, c.rules.WeakSignals) > 0 {
		return true
	}
	return false
}

func (p CategoryPolicy) matches(text string, tokens []string) bool {
	for _, group := range p.Groups {
		if matchCount(text, tokens, group) == 0 {
			return false
		}
	}
	return len(p.Groups) > 0
}

// matchCount returns how many distinct keywords appear in the text.
// Single-word keywords must match a whole token so that short terms like
// "ai" never match inside unrelated words; multi-word keywords match as
// substrings of the pre-lowered text.
func matchCount(text string, tokens []string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(text, kw) {
				count++
			}
			continue
		}
		for _, t := range tokens {
			if t == kw {
				count++
				break
			}
		}
	}
	return count
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
