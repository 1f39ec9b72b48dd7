package extract

import "errors"

// Errors returned by extraction.
var (
	// ErrNoEntry indicates the configuration has no init.lua.
	ErrNoEntry = errors.New("no init.lua in configuration directory")

	// ErrNothingCaptured indicates the entry file failed and no binding was recorded.
	ErrNothingCaptured = errors.New("configuration failed to load and no bindings were captured")
)
