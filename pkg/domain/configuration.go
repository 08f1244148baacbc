package domain

import (
	"fmt"
	"strings"
)

// Configuration is an instantaneous description of the machine: the control
// state, the input not yet consumed, and the stack contents. Configurations
// are never mutated in place; applying a transition produces a new value.
type Configuration struct {
	State     State    `json:"state"`
	Remaining []Symbol `json:"remaining"`
	Stack     Stack    `json:"stack"`
}

// NewConfiguration builds the start configuration for the given input.
func NewConfiguration(state State, input []Symbol, stack Stack) Configuration {
	return Configuration{State: state, Remaining: input, Stack: stack}
}

// InputEmpty reports whether all input has been consumed.
func (c Configuration) InputEmpty() bool { return len(c.Remaining) == 0 }

// Fingerprint returns a canonical identity string over (state, remaining,
// stack). Two configurations with equal fingerprints are the same node of
// the configuration graph; the engine's visited set keys on it. The unit
// separator keeps multi-rune symbols from colliding.
func (c Configuration) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(c.State))
	b.WriteByte(0x1f)
	for _, s := range c.Remaining {
		b.WriteString(string(s))
		b.WriteByte(0x1f)
	}
	b.WriteByte(0x1e)
	for _, s := range c.Stack {
		b.WriteString(string(s))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// String renders the configuration as the classical triple, with the stack
// shown bottom to top.
func (c Configuration) String() string {
	return fmt.Sprintf("(%s, %s, %s)", c.State, JoinSymbols(c.Remaining), c.Stack)
}
