package domain

import "strings"

// Symbol is a single input or stack symbol. Symbols are usually one rune
// ("a", "Z") but the type does not forbid longer names when a definition is
// built programmatically.
type Symbol string

const (
	// Epsilon is the empty-word symbol. As a transition's Input it consumes
	// nothing; as its Pop it leaves the stack untouched.
	Epsilon Symbol = "ε"

	// EndMarker matches exhaustion. As a transition's Input it applies only
	// when no input remains; as its Pop only when the stack is empty. Like
	// Epsilon, applying it consumes and pops nothing.
	EndMarker Symbol = "?"
)

// IsEpsilon reports whether the symbol is the empty word.
func (s Symbol) IsEpsilon() bool { return s == Epsilon }

// IsEndMarker reports whether the symbol is the exhaustion marker.
func (s Symbol) IsEndMarker() bool { return s == EndMarker }

// IsControl reports whether the symbol carries special matching semantics
// rather than naming a concrete alphabet member.
func (s Symbol) IsControl() bool { return s.IsEpsilon() || s.IsEndMarker() }

// Symbols tokenizes raw input text into one Symbol per rune. Multi-rune
// symbols can only be fed through the []Symbol APIs directly.
func Symbols(input string) []Symbol {
	if input == "" {
		return nil
	}
	out := make([]Symbol, 0, len(input))
	for _, r := range input {
		out = append(out, Symbol(r))
	}
	return out
}

// JoinSymbols renders a symbol sequence as a comma-free word. An empty
// sequence renders as the empty word "ε".
func JoinSymbols(symbols []Symbol) string {
	if len(symbols) == 0 {
		return string(Epsilon)
	}
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(string(s))
	}
	return b.String()
}

// ListSymbols renders a symbol sequence comma-joined, "ε" when empty. This
// is the display form used for push sequences and stacks.
func ListSymbols(symbols []Symbol) string {
	if len(symbols) == 0 {
		return string(Epsilon)
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
