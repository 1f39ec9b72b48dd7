package intent

import (
	"sort"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
)

// Result is the outcome of classifying one binding.
type Result struct {
	Intent     string
	Confidence keymap.Confidence
	Category   keymap.Category
	// Tier names the matching tier, or "" when nothing matched.
	Tier string
}

// Translatable reports whether an intent was found.
func (r Result) Translatable() bool {
	return r.Intent != ""
}

// Classifier runs the tiers in precedence order.
type Classifier struct {
	tiers []Matcher
}

// Option configures a Classifier.
type Option func(*options)

type options struct {
	aliases AliasSource
}

// WithAliases consults src after the built-in description aliases.
func WithAliases(src AliasSource) Option {
	return func(o *options) {
		o.aliases = src
	}
}

// New creates a classifier with the standard tier order.
func New(opts ...Option) *Classifier {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	describe := &descriptionTier{aliases: o.aliases}
	return &Classifier{
		tiers: []Matcher{
			commandTier{},
			sourceTier{describe: describe},
			patternTier{},
			describe,
		},
	}
}

// Classify resolves the intent of a single binding.
func (c *Classifier) Classify(b keymap.RawBinding) Result {
	for _, tier := range c.tiers {
		intent := tier.Match(b)
		if intent == "" {
			continue
		}
		return Result{
			Intent:     intent,
			Confidence: tier.Confidence(),
			Category:   Categorize(intent, b),
			Tier:       tier.Name(),
		}
	}

	return Result{
		Confidence: keymap.ConfidenceLow,
		Category:   keymap.CategoryUnknown,
	}
}

// ClassifyAll classifies bindings one to one, preserving order.
func (c *Classifier) ClassifyAll(bindings []keymap.RawBinding) []keymap.ClassifiedBinding {
	out := make([]keymap.ClassifiedBinding, len(bindings))
	for i, b := range bindings {
		res := c.Classify(b)
		out[i] = keymap.ClassifiedBinding{
			RawBinding:   b,
			Intent:       res.Intent,
			Confidence:   res.Confidence,
			Translatable: res.Translatable(),
			Category:     res.Category,
		}
	}
	return out
}

// Catalogue returns every intent the built-in tables can produce, sorted.
func Catalogue() []string {
	seen := make(map[string]struct{})
	add := func(intent string) {
		if intent != "" {
			seen[intent] = struct{}{}
		}
	}

	for _, r := range commandRules {
		add(r.intent)
	}
	for _, intent := range gitSubcommands {
		add(intent)
	}
	add(gitSubcommand(nil))
	for _, intent := range telescopePickers {
		add(intent)
	}
	for _, r := range sourceRules {
		for _, intent := range r.byLHS {
			add(intent)
		}
		for _, intent := range r.byName {
			add(intent)
		}
	}
	for _, r := range patternRules {
		add(r.intent)
	}
	for _, intent := range descriptionAliases {
		add(intent)
	}
	for _, r := range fuzzyRules {
		add(r.intent)
	}

	out := make([]string, 0, len(seen))
	for intent := range seen {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}
