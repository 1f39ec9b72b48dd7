package integrate

import (
	"errors"
	"fmt"
)

// Errors returned by integration operations.
var (
	// ErrInvalidSettings indicates the settings file is not valid JSON.
	ErrInvalidSettings = errors.New("settings file is not valid JSON")

	// ErrSettingsJSONC indicates the settings file parses only once comments
	// and trailing commas are stripped. Rewriting it would drop them.
	ErrSettingsJSONC = errors.New("it has comments or trailing commas; remove them or merge the generated keybindings by hand")

	// ErrSettingsNotObject indicates the settings file is JSON but not an object.
	ErrSettingsNotObject = errors.New("settings file is not a JSON object")

	// ErrSectionNotArray indicates a keybinding section holds a non-array value.
	ErrSectionNotArray = errors.New("keybinding section is not an array")

	// ErrUnterminatedBlock indicates a start marker without a matching end marker.
	ErrUnterminatedBlock = errors.New("managed block has no end marker")
)

// SettingsError describes a settings file that cannot be merged.
type SettingsError struct {
	// Path is the settings file.
	Path string
	// Key is the offending setting, if any.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SettingsError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("settings %s: %s: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("settings %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SettingsError) Unwrap() error {
	return e.Err
}
