package registry

import (
	"errors"
	"fmt"
)

// Errors returned while loading tables.
var (
	// ErrTableMissing indicates a mapping table could not be read.
	ErrTableMissing = errors.New("mapping table missing")

	// ErrTableCorrupt indicates a mapping table failed to parse.
	ErrTableCorrupt = errors.New("mapping table corrupt")

	// ErrUnknownAliasTarget indicates an alias points at an intent no table defines.
	ErrUnknownAliasTarget = errors.New("alias target is not a known intent")
)

// LoadError describes a failure loading one table file.
type LoadError struct {
	// Table is the file that failed.
	Table string
	// Line and Column locate a parse error (zero if unknown).
	Line   int
	Column int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("loading mapping table %s at line %d, column %d: %v", e.Table, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("loading mapping table %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
