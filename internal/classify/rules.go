package classify

// Rules is the classification policy as pure data: every keyword table the
// classifier consults lives here so the policy can be tuned or unit-tested
// without touching the matching machinery. Single-word keywords match whole
// tokens only; multi-word keywords match as substrings of the lowered text.
type Rules struct {
	// HardExclusions reject an item outright, before any acceptance rule
	// runs. Off-domain topics and promotional spam.
	HardExclusions []string

	// StrongSignals are domain-core terms. Two of them accept an item on
	// their own; one suffices when a flagship org is also named.
	StrongSignals []string

	// WeakSignals are adjacent terms that only count when paired with a
	// flagship org.
	WeakSignals []string

	// FlagshipOrgs are the companies and labs whose mention upgrades a
	// weak or single-strong match into an accept.
	FlagshipOrgs []string

	// CategoryPolicies override the general rule for source categories
	// curated enough upstream that the blanket thresholds would reject
	// valid items. Keyed by lower-cased source category.
	CategoryPolicies map[string]CategoryPolicy
}

// CategoryPolicy accepts an item when every keyword group matches at least
// once. A single-group policy is a plain any-of list.
type CategoryPolicy struct {
	Groups [][]string
}

// DefaultRules returns the built-in classification policy.
func DefaultRules() Rules {
	return Rules{
		HardExclusions: []string{
			"anime", "manga", "k-pop", "concert", "music festival",
			"celebrity", "fashion", "sports", "soccer", "basketball",
			"football", "olympics", "tourism", "travel destination",
			"restaurant", "cuisine", "recipe",
			"video game", "gaming console", "movie release", "film festival",
			"black friday", "cyber monday", "deal", "sale", "discount",
			"coupon", "promo", "giveaway",
		},
		StrongSignals: []string{
			"artificial intelligence", "machine learning", "deep learning",
			"neural network", "llm", "large language model",
			"gpt", "chatgpt", "claude", "gemini",
			"generative ai", "transformer", "diffusion model",
			"foundation model", "language model", "ai model", "ai startup",
			"ai chip", "ai safety", "agi", "superintelligence",
			"computer vision", "nlp", "inference", "fine-tuning", "gpu",
		},
		WeakSignals: []string{
			"startup", "funding", "venture", "ipo", "acquisition", "merger",
			"chip", "semiconductor", "cloud", "software", "compute",
			"data center", "open source", "benchmark", "api",
			"regulation", "automation", "lawsuit",
		},
		FlagshipOrgs: []string{
			"openai", "anthropic", "deepmind", "google", "meta",
			"microsoft", "nvidia", "apple", "amazon",
			"mistral", "hugging face", "xai", "tesla",
		},
		CategoryPolicies: map[string]CategoryPolicy{
			// Robotics feeds are curated; any robotics term is enough.
			"robotics": {Groups: [][]string{{
				"robot", "robots", "robotic", "robotics", "humanoid",
				"autonomous", "drone", "actuator", "manipulation",
				"self-driving", "automation",
			}}},
			// Market feeds must tie a financial event to a tech subject.
			"market": {Groups: [][]string{
				{
					"stock", "stocks", "shares", "ipo", "valuation",
					"funding", "venture", "acquisition", "merger",
					"earnings", "market cap", "investment", "investors",
				},
				{
					"ai", "tech", "technology", "software", "chip",
					"chips", "semiconductor", "cloud", "startup",
					"gpu", "data center", "platform",
				},
			}},
			// Developer-tooling feeds; any tooling term is enough.
			"tools": {Groups: [][]string{{
				"developer", "developers", "sdk", "api", "framework",
				"compiler", "ide", "copilot", "code generation", "coding",
				"programming", "open source", "github", "library", "runtime",
			}}},
		},
	}
}
