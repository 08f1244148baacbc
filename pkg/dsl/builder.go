package dsl

import (
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
)

// Builder assembles a Definition incrementally. States and alphabets may be
// declared up front (fixing their order) or left to be inferred from the
// transitions; inferred entries append in first-use order.
type Builder struct {
	def domain.Definition

	states    *orderedSet[domain.State]
	inputSyms *orderedSet[domain.Symbol]
	stackSyms *orderedSet[domain.Symbol]
}

// New creates a builder for a named automaton.
func New(name string) *Builder {
	return &Builder{
		def:       domain.Definition{Name: name},
		states:    newOrderedSet[domain.State](),
		inputSyms: newOrderedSet[domain.Symbol](),
		stackSyms: newOrderedSet[domain.Symbol](),
	}
}

// Description sets the human-readable description.
func (b *Builder) Description(text string) *Builder {
	b.def.Description = text
	return b
}

// States declares states explicitly, in this order.
func (b *Builder) States(names ...string) *Builder {
	for _, n := range names {
		b.states.add(domain.State(n))
	}
	return b
}

// InputAlphabet declares input symbols explicitly, in this order.
func (b *Builder) InputAlphabet(symbols ...string) *Builder {
	for _, s := range symbols {
		b.inputSyms.add(domain.Symbol(s))
	}
	return b
}

// StackAlphabet declares stack symbols explicitly, in this order.
func (b *Builder) StackAlphabet(symbols ...string) *Builder {
	for _, s := range symbols {
		b.stackSyms.add(domain.Symbol(s))
	}
	return b
}

// Start sets the initial state.
func (b *Builder) Start(state string) *Builder {
	b.def.InitialState = domain.State(state)
	b.states.add(b.def.InitialState)
	return b
}

// StackStart sets the symbol the stack holds before the first move.
func (b *Builder) StackStart(symbol string) *Builder {
	b.def.InitialStackSymbol = domain.Symbol(symbol)
	b.stackSyms.add(b.def.InitialStackSymbol)
	return b
}

// Final marks states as accepting.
func (b *Builder) Final(states ...string) *Builder {
	for _, s := range states {
		state := domain.State(s)
		b.def.FinalStates = append(b.def.FinalStates, state)
		b.states.add(state)
	}
	return b
}

// From opens a transition rule leaving state. Read and Pop default to ε
// until set; complete the rule with To.
func (b *Builder) From(state string) *TransitionBuilder {
	return &TransitionBuilder{
		builder: b,
		t: domain.Transition{
			From:  domain.State(state),
			Input: domain.Epsilon,
			Pop:   domain.Epsilon,
		},
	}
}

// Build compiles the definition and validates it.
func (b *Builder) Build() (*domain.Definition, error) {
	def := b.def
	def.States = b.states.items()
	def.InputAlphabet = b.inputSyms.items()
	def.StackAlphabet = b.stackSyms.items()

	if err := validator.Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// add registers a finished transition and infers whatever it mentions.
func (b *Builder) add(t domain.Transition) {
	b.states.add(t.From)
	b.states.add(t.To)
	if !t.Input.IsControl() {
		b.inputSyms.add(t.Input)
	}
	if !t.Pop.IsControl() {
		b.stackSyms.add(t.Pop)
	}
	for _, p := range t.Push {
		b.stackSyms.add(p)
	}
	b.def.Transitions = append(b.def.Transitions, t)
}

// orderedSet keeps first-insertion order, which fixes alphabet and state
// ordering in the built definition.
type orderedSet[T comparable] struct {
	seen  map[T]bool
	order []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{seen: make(map[T]bool)}
}

func (s *orderedSet[T]) add(v T) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.order = append(s.order, v)
}

func (s *orderedSet[T]) items() []T {
	return append([]T(nil), s.order...)
}
