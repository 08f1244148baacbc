package dsl

import "github.com/aretw0/espalier/pkg/domain"

// TransitionBuilder provides a fluent API for configuring one transition.
type TransitionBuilder struct {
	builder *Builder
	t       domain.Transition
}

// Read makes the rule consume the given input symbol.
func (tb *TransitionBuilder) Read(symbol string) *TransitionBuilder {
	tb.t.Input = domain.Symbol(symbol)
	return tb
}

// WhenInputDone restricts the rule to fire only once the input is exhausted.
func (tb *TransitionBuilder) WhenInputDone() *TransitionBuilder {
	tb.t.Input = domain.EndMarker
	return tb
}

// Pop makes the rule consume the given symbol off the stack top.
func (tb *TransitionBuilder) Pop(symbol string) *TransitionBuilder {
	tb.t.Pop = domain.Symbol(symbol)
	return tb
}

// WhenStackEmpty restricts the rule to fire only on an empty stack.
func (tb *TransitionBuilder) WhenStackEmpty() *TransitionBuilder {
	tb.t.Pop = domain.EndMarker
	return tb
}

// Push sets the symbols the rule pushes; the last one ends on top.
func (tb *TransitionBuilder) Push(symbols ...string) *TransitionBuilder {
	tb.t.Push = make([]domain.Symbol, len(symbols))
	for i, s := range symbols {
		tb.t.Push[i] = domain.Symbol(s)
	}
	return tb
}

// To completes the rule with its target state and registers it, returning
// the parent builder for chaining.
func (tb *TransitionBuilder) To(state string) *Builder {
	tb.t.To = domain.State(state)
	tb.builder.add(tb.t)
	return tb.builder
}
