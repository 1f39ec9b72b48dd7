package intent

import (
	"regexp"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// Matcher is one precedence tier of the classifier.
type Matcher interface {
	// Name identifies the tier in logs and results.
	Name() string
	// Confidence is assigned to every match of this tier.
	Confidence() keymap.Confidence
	// Match returns the intent for b, or "" if the tier does not apply.
	Match(b keymap.RawBinding) string
}

// Tier names.
const (
	TierCommand     = "command"
	TierSource      = "source"
	TierPattern     = "pattern"
	TierDescription = "description"
)

var (
	cmdWrapper   = regexp.MustCompile(`(?i)<cmd>\s*([^<\r\n]+?)\s*<CR>`)
	colonWrapper = regexp.MustCompile(`(?i):\s*([^<\r\n]+?)\s*<CR>`)
)

// commandTier recognizes editor commands invoked through a wrapper.
type commandTier struct{}

func (commandTier) Name() string                  { return TierCommand }
func (commandTier) Confidence() keymap.Confidence { return keymap.ConfidenceHigh }

func (commandTier) Match(b keymap.RawBinding) string {
	text := extractCommand(b.RHS)
	if text == "" {
		return ""
	}

	fields := strings.Fields(text)
	name, args := fields[0], fields[1:]
	for _, rule := range commandRules {
		if !rule.name.MatchString(name) {
			continue
		}
		if rule.resolve != nil {
			return rule.resolve(args)
		}
		return rule.intent
	}
	return ""
}

// extractCommand returns the command text inside "<cmd>...<CR>" or
// ":...<CR>", or "".
func extractCommand(rhs string) string {
	if rhs == "" || rhs == keymap.LuaCallback {
		return ""
	}
	for _, re := range []*regexp.Regexp{cmdWrapper, colonWrapper} {
		if m := re.FindStringSubmatch(rhs); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// sourceTier resolves callbacks defined in well-known config files.
type sourceTier struct {
	describe *descriptionTier
}

func (sourceTier) Name() string                  { return TierSource }
func (sourceTier) Confidence() keymap.Confidence { return keymap.ConfidenceHigh }

func (t sourceTier) Match(b keymap.RawBinding) string {
	source := strings.ToLower(b.RHSSource)
	if source == "" {
		return ""
	}

	for _, rule := range sourceRules {
		if !strings.Contains(source, rule.fragment) {
			continue
		}
		if intent, ok := rule.byLHS[b.LHS]; ok {
			return intent
		}
		if intent, ok := rule.byName[lastSegment(b.RHSName)]; ok {
			return intent
		}
		if rule.describe {
			return t.describe.Match(b)
		}
		return ""
	}
	return ""
}

// lastSegment returns the final dotted component of a function name.
func lastSegment(name string) string {
	if i := strings.LastIndexAny(name, ".:"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// patternTier matches library call signatures in the combined text.
type patternTier struct{}

func (patternTier) Name() string                  { return TierPattern }
func (patternTier) Confidence() keymap.Confidence { return keymap.ConfidenceHigh }

func (patternTier) Match(b keymap.RawBinding) string {
	text := rawText(b)
	if text == "" {
		return ""
	}
	for _, rule := range patternRules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		if rule.unless != nil && rule.unless.MatchString(text) {
			continue
		}
		return rule.intent
	}
	return ""
}

func rawText(b keymap.RawBinding) string {
	return strings.TrimSpace(strings.Join([]string{b.RHS, b.RHSSource, b.RHSName, b.Desc}, " "))
}

// AliasSource resolves free-text labels; *registry.Registry implements it.
type AliasSource interface {
	Alias(label string) (string, bool)
}

// descriptionTier matches the human label, exactly then loosely.
type descriptionTier struct {
	aliases AliasSource
}

func (*descriptionTier) Name() string                  { return TierDescription }
func (*descriptionTier) Confidence() keymap.Confidence { return keymap.ConfidenceMedium }

func (t *descriptionTier) Match(b keymap.RawBinding) string {
	desc := registry.Normalize(b.Desc)
	if desc == "" {
		return ""
	}

	if intent, ok := descriptionAliases[desc]; ok {
		return intent
	}
	if t.aliases != nil {
		if intent, ok := t.aliases.Alias(desc); ok {
			return intent
		}
	}

	for _, rule := range fuzzyRules {
		if rule.pattern.MatchString(desc) {
			return rule.intent
		}
	}
	return ""
}
