package domain

// Definition is a complete pushdown automaton. Instances are treated as
// immutable after construction; the engine only ever reads them, so a single
// Definition is safe to share across concurrent runs.
//
// Slices keep declaration order. Order matters for Transitions: it breaks
// ties between candidates of the same category, which keeps traces
// deterministic.
type Definition struct {
	Name               string       `json:"name,omitempty"`
	Description        string       `json:"description,omitempty"`
	States             []State      `json:"states"`
	InputAlphabet      []Symbol     `json:"input_alphabet"`
	StackAlphabet      []Symbol     `json:"stack_alphabet"`
	InitialState       State        `json:"initial_state"`
	InitialStackSymbol Symbol       `json:"initial_stack"`
	FinalStates        []State      `json:"final_states"`
	Transitions        []Transition `json:"transitions"`
}

// HasState reports whether name is a declared state.
func (d *Definition) HasState(name State) bool {
	for _, s := range d.States {
		if s == name {
			return true
		}
	}
	return false
}

// IsFinal reports whether the state is accepting.
func (d *Definition) IsFinal(state State) bool {
	for _, s := range d.FinalStates {
		if s == state {
			return true
		}
	}
	return false
}

// InInputAlphabet reports whether the symbol is a declared input symbol.
func (d *Definition) InInputAlphabet(sym Symbol) bool {
	for _, s := range d.InputAlphabet {
		if s == sym {
			return true
		}
	}
	return false
}

// InStackAlphabet reports whether the symbol is a declared stack symbol.
func (d *Definition) InStackAlphabet(sym Symbol) bool {
	for _, s := range d.StackAlphabet {
		if s == sym {
			return true
		}
	}
	return false
}

// StartConfiguration builds the machine's initial configuration for input:
// the initial state with only the initial stack symbol on the stack.
func (d *Definition) StartConfiguration(input []Symbol) Configuration {
	return NewConfiguration(d.InitialState, input, Stack{d.InitialStackSymbol})
}

// TransitionsFrom returns the rules applicable to the configuration, ordered
// by category (consume input and pop first, pure ε moves last) and within a
// category by declaration order. The ordering is what makes runs and traces
// reproducible.
func (d *Definition) TransitionsFrom(c Configuration) []Transition {
	var buckets [4][]Transition
	for _, t := range d.Transitions {
		if t.Applicable(c) {
			cat := t.category()
			buckets[cat] = append(buckets[cat], t)
		}
	}
	out := buckets[0]
	for _, b := range buckets[1:] {
		out = append(out, b...)
	}
	return out
}
