// Package filter enforces source diversity and collapses near-duplicate
// stories in a classifier-accepted, recency-sorted item sequence.
package filter

import (
	"strings"

	"github.com/novai/newswire/internal/feed"
)

const (
	// DefaultSourceQuota is the max items any single source may
	// contribute to one aggregate result.
	DefaultSourceQuota = 2

	// DefaultSimilarityThreshold is the Jaccard index above which two
	// titles are treated as the same story. 0.45 catches rephrased
	// headlines that share the core tokens ("OpenAI releases GPT-5
	// today" vs "OpenAI releases GPT-5 this morning", similarity 0.5)
	// while keeping distinct stories about the same subject apart.
	DefaultSimilarityThreshold = 0.45
)

// Options tunes Apply. Zero values fall back to the defaults above.
type Options struct {
	SourceQuota         int
	SimilarityThreshold float64
}

// Apply runs both constraints in a single left-to-right pass. Because the
// input is sorted newest first, the pass implicitly keeps the newest
// instance of a repeated story and the newest items from each source.
// The dedup comparison is O(n²) over the post-quota survivors only,
// which stays small; never feed it the raw unfiltered fetch volume.
func Apply(items []feed.Item, opts Options) []feed.Item {
	quota := opts.SourceQuota
	if quota <= 0 {
		quota = DefaultSourceQuota
	}
	threshold := opts.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	perSource := make(map[string]int)
	var acceptedTitles []string
	out := make([]feed.Item, 0, len(items))

	for _, it := range items {
		if perSource[it.Source] >= quota {
			continue
		}

		dup := false
		for _, title := range acceptedTitles {
			if jaccard(it.Title, title) > threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		perSource[it.Source]++
		acceptedTitles = append(acceptedTitles, it.Title)
		out = append(out, it)
	}
	return out
}

// jaccard computes token-set similarity between two titles:
// |intersection| / |union| over lower-cased whitespace tokens.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(s)) {
		set[t] = struct{}{}
	}
	return set
}
