package domain

import "fmt"

// Step is one fired transition: the rule plus the configurations on either
// side of it.
type Step struct {
	Transition Transition    `json:"transition"`
	From       Configuration `json:"from"`
	To         Configuration `json:"to"`
}

// String renders the step as a history line, e.g.
//
//	q0 → q1 [read: a, pop: Z, push: X,Z]
func (s Step) String() string {
	return s.Transition.String()
}

// Trace is the ordered list of steps from the start configuration to an
// accepting one.
type Trace []Step

// Lines renders the trace as display history, one line per step.
func (tr Trace) Lines() []string {
	out := make([]string, len(tr))
	for i, s := range tr {
		out[i] = s.String()
	}
	return out
}

// Replay re-applies the trace from a start configuration and returns the
// configuration it ends in. It fails if any step is not applicable where the
// trace claims it fired, which would mean the trace does not belong to this
// start configuration.
func (tr Trace) Replay(start Configuration) (Configuration, error) {
	current := start
	for i, s := range tr {
		if !s.Transition.Applicable(current) {
			return current, fmt.Errorf("trace step %d not applicable at %s: %s", i, current, s.Transition)
		}
		current = s.Transition.Apply(current)
	}
	return current, nil
}

// Candidate is one applicable transition offered to an interactive session,
// along with a preview of the configuration firing it would produce.
type Candidate struct {
	Index      int           `json:"index"`
	Transition Transition    `json:"transition"`
	Next       Configuration `json:"next"`
}
