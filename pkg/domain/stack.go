package domain

// Stack is the automaton's symbol stack. The top lives at the end of the
// slice. The zero value is an empty stack ready for use.
//
// Stack has value semantics from the simulation's point of view: the engine
// clones before mutating, so configurations can share history safely.
type Stack []Symbol

// Push places symbols on the stack in order, so the LAST element of seq ends
// up on top. A push of the empty sequence is a no-op (the "push ε" rule).
func (s *Stack) Push(seq ...Symbol) {
	*s = append(*s, seq...)
}

// Pop removes and returns the top symbol. ok is false on an empty stack.
func (s *Stack) Pop() (Symbol, bool) {
	old := *s
	if len(old) == 0 {
		return "", false
	}
	top := old[len(old)-1]
	*s = old[:len(old)-1]
	return top, true
}

// Top returns the top symbol without removing it. ok is false on an empty
// stack.
func (s Stack) Top() (Symbol, bool) {
	if len(s) == 0 {
		return "", false
	}
	return s[len(s)-1], true
}

// Empty reports whether the stack holds no symbols.
func (s Stack) Empty() bool { return len(s) == 0 }

// Len returns the number of symbols on the stack.
func (s Stack) Len() int { return len(s) }

// Clone returns an independent copy. Mutating the clone never affects the
// original.
func (s Stack) Clone() Stack {
	if len(s) == 0 {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// String renders the stack bottom to top, comma-joined, "ε" when empty.
func (s Stack) String() string {
	return ListSymbols(s)
}
