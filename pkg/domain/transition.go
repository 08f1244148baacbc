package domain

import "fmt"

// Transition is one rule of the automaton. Reading Input (unless Epsilon or
// EndMarker) and popping Pop (same) it moves From -> To and pushes Push onto
// the stack, last element ending on top.
type Transition struct {
	From  State    `json:"from"`
	To    State    `json:"to"`
	Input Symbol   `json:"read"`
	Pop   Symbol   `json:"pop"`
	Push  []Symbol `json:"push"`
}

// Applicable reports whether the rule can fire from the configuration.
//
// The Input position matches the first remaining symbol, or anything when
// Epsilon, or only exhausted input when EndMarker. The Pop position matches
// the stack top, or anything when Epsilon, or only the empty stack when
// EndMarker.
func (t Transition) Applicable(c Configuration) bool {
	if c.State != t.From {
		return false
	}
	switch {
	case t.Input.IsEpsilon():
	case t.Input.IsEndMarker():
		if !c.InputEmpty() {
			return false
		}
	default:
		if c.InputEmpty() || c.Remaining[0] != t.Input {
			return false
		}
	}
	switch {
	case t.Pop.IsEpsilon():
	case t.Pop.IsEndMarker():
		if !c.Stack.Empty() {
			return false
		}
	default:
		top, ok := c.Stack.Top()
		if !ok || top != t.Pop {
			return false
		}
	}
	return true
}

// Apply fires the rule and returns the successor configuration. The input
// configuration is left untouched. Callers must check Applicable first;
// applying a non-applicable rule is a programming error.
func (t Transition) Apply(c Configuration) Configuration {
	next := Configuration{State: t.To, Remaining: c.Remaining}
	if !t.Input.IsControl() {
		next.Remaining = c.Remaining[1:]
	}
	stack := c.Stack.Clone()
	if !t.Pop.IsControl() {
		stack.Pop()
	}
	stack.Push(t.Push...)
	next.Stack = stack
	return next
}

// consumesInput reports whether firing removes a symbol from the input.
func (t Transition) consumesInput() bool { return !t.Input.IsControl() }

// popsStack reports whether firing removes a symbol from the stack.
func (t Transition) popsStack() bool { return !t.Pop.IsControl() }

// category orders candidate enumeration: rules that consume input and pop
// the stack come first, then input-only, then stack-only, then pure ε moves.
func (t Transition) category() int {
	switch {
	case t.consumesInput() && t.popsStack():
		return 0
	case t.consumesInput():
		return 1
	case t.popsStack():
		return 2
	default:
		return 3
	}
}

// String renders the rule in the display form used by traces and history:
//
//	q0 → q1 [read: a, pop: Z, push: X,Z]
func (t Transition) String() string {
	return fmt.Sprintf("%s → %s [read: %s, pop: %s, push: %s]",
		t.From, t.To, t.Input, t.Pop, ListSymbols(t.Push))
}
