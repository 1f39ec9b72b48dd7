package keymap

// LuaCallback is the rhs marker used when the mapping target is a Lua
// function rather than literal command text.
const LuaCallback = "<Lua function>"

// DefaultMode is assumed for records that do not name a mode.
const DefaultMode = "n"

// RawBinding is a single key binding as captured from the editor.
type RawBinding struct {
	// Mode is the single-letter Vim mode ("n", "v", "x", "i", ...).
	Mode string `json:"mode" yaml:"mode"`

	// LHS is the key sequence in Vim notation.
	LHS string `json:"lhs" yaml:"lhs"`

	// RHS is the literal mapping text, or LuaCallback.
	RHS string `json:"rhs" yaml:"rhs"`

	// RHSSource is the defining file of a callback ("@/path/to/file.lua").
	RHSSource string `json:"rhs_source,omitempty" yaml:"rhs_source,omitempty"`

	// RHSName is the callback's function name or observed call signature.
	RHSName string `json:"rhs_name,omitempty" yaml:"rhs_name,omitempty"`

	// Desc is the human label given in the mapping options.
	Desc string `json:"desc,omitempty" yaml:"desc,omitempty"`

	Silent  bool `json:"silent" yaml:"silent"`
	Noremap bool `json:"noremap" yaml:"noremap"`
	Buffer  bool `json:"buffer" yaml:"buffer"`
	Nowait  bool `json:"nowait" yaml:"nowait"`
	Expr    bool `json:"expr" yaml:"expr"`
}

// IsCallback reports whether the binding maps to a Lua function.
func (b RawBinding) IsCallback() bool {
	return b.RHS == LuaCallback || (b.RHS == "" && (b.RHSSource != "" || b.RHSName != ""))
}

// Key returns the (mode, lhs) identity used for dedup and default
// suppression.
func (b RawBinding) Key() string {
	return b.Mode + "\x00" + b.LHS
}

// Confidence is the classifier's certainty tier.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Category is the coarse grouping derived from an intent namespace.
type Category string

// Categories.
const (
	CategoryNavigation Category = "navigation"
	CategoryLSP        Category = "lsp"
	CategoryGit        Category = "git"
	CategoryEditing    Category = "editing"
	CategoryPlugin     Category = "plugin"
	CategoryUnknown    Category = "unknown"
)

// ClassifiedBinding is a RawBinding annotated with its resolved intent.
//
// An empty Intent means no intent was found; in that case Translatable is
// false, Confidence is low and Category is unknown.
type ClassifiedBinding struct {
	RawBinding

	Intent       string     `json:"intent,omitempty" yaml:"intent,omitempty"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	Translatable bool       `json:"translatable" yaml:"translatable"`
	Category     Category   `json:"category" yaml:"category"`
}

// HasIntent reports whether the classifier resolved an intent.
func (c ClassifiedBinding) HasIntent() bool {
	return c.Intent != ""
}

// Descriptor describes the user's editor configuration.
type Descriptor struct {
	// Leader is the raw mapleader value (a single character, usually).
	Leader string `json:"leader" yaml:"leader"`

	// ConfigPath is the editor configuration root.
	ConfigPath string `json:"config_path" yaml:"config_path"`

	// Warnings are non-fatal problems found during discovery.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DefaultLeader is Vim's built-in mapleader.
const DefaultLeader = "\\"

// LeaderOrDefault returns the configured leader, or Vim's default.
func (d Descriptor) LeaderOrDefault() string {
	if d.Leader == "" {
		return DefaultLeader
	}
	return d.Leader
}
