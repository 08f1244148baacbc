package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidChoice is returned by interactive sessions when an Apply index
// is out of range or a Back is attempted at the start configuration.
var ErrInvalidChoice = errors.New("invalid choice")

// ErrSessionNotFound is returned when a session ID cannot be found in the
// store.
var ErrSessionNotFound = errors.New("session not found")

// ErrRunNotFound is returned when a run record ID cannot be found in the
// history store.
var ErrRunNotFound = errors.New("run not found")

// ErrDefinitionNotFound is returned when a library has no definition under
// the requested name.
var ErrDefinitionNotFound = errors.New("definition not found")

// DefinitionError reports an automaton definition that could not be parsed
// or failed validation. It is fatal: nothing downstream runs on a broken
// definition.
type DefinitionError struct {
	// Source hints where the definition came from (file path, library name).
	// May be empty for programmatic definitions.
	Source string

	// Err holds the underlying parse error or validation aggregate.
	Err error
}

func (e *DefinitionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid automaton definition: %v", e.Err)
	}
	return fmt.Sprintf("invalid automaton definition %s: %v", e.Source, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// NewDefinitionError wraps err as a fatal definition error.
func NewDefinitionError(source string, err error) *DefinitionError {
	return &DefinitionError{Source: source, Err: err}
}
