// Package app runs the migration: it loads bindings, classifies and
// translates them, writes the generated artifacts and integrates them
// into the target editors.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrUnknownTarget indicates an editor name that has no generator.
	ErrUnknownTarget = errors.New("unknown target editor")

	// ErrNoBindings indicates the input produced no bindings at all.
	ErrNoBindings = errors.New("no key bindings found")
)

// OperationError represents a failure of one step of a run.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "install", "uninstall")
	Target string // Target of the operation (e.g., editor name, file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
