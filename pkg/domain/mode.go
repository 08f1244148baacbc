package domain

import "fmt"

// AcceptanceMode decides when a configuration with exhausted input counts as
// accepting.
type AcceptanceMode string

const (
	// AcceptFinalState accepts when the control state is final. This is the
	// default everywhere (engine, CLI, HTTP, MCP).
	AcceptFinalState AcceptanceMode = "final_state"

	// AcceptEmptyStack accepts when the stack is empty, final states ignored.
	AcceptEmptyStack AcceptanceMode = "empty_stack"

	// AcceptBoth requires a final state and an empty stack at once.
	AcceptBoth AcceptanceMode = "both"
)

// ParseAcceptanceMode maps the wire/flag spelling onto a mode. The empty
// string means "use the default".
func ParseAcceptanceMode(s string) (AcceptanceMode, error) {
	switch AcceptanceMode(s) {
	case "":
		return AcceptFinalState, nil
	case AcceptFinalState, AcceptEmptyStack, AcceptBoth:
		return AcceptanceMode(s), nil
	default:
		return "", fmt.Errorf("unknown acceptance mode %q (want final_state, empty_stack or both)", s)
	}
}

// Accepts is the acceptance predicate: the input must be exhausted and the
// mode's condition on the configuration must hold.
func (m AcceptanceMode) Accepts(d *Definition, c Configuration) bool {
	if !c.InputEmpty() {
		return false
	}
	switch m {
	case AcceptEmptyStack:
		return c.Stack.Empty()
	case AcceptBoth:
		return d.IsFinal(c.State) && c.Stack.Empty()
	default:
		return d.IsFinal(c.State)
	}
}
