package dto

import (
	"fmt"

	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

// epsilonAliases are the spellings loaders accept for the empty word.
var epsilonAliases = map[string]bool{
	"":        true,
	"ε":       true,
	"eps":     true,
	"epsilon": true,
}

// NormalizeSymbol maps a raw spelling onto a Symbol, folding the epsilon
// aliases. "?" passes through as the end marker.
func NormalizeSymbol(raw string) domain.Symbol {
	if epsilonAliases[raw] {
		return domain.Epsilon
	}
	return domain.Symbol(raw)
}

// Definition normalizes the document and validates the result. The error is
// a schema aggregate carrying every violation; callers wrap it in a
// domain.DefinitionError with the source attached.
func (d *Document) Definition() (*domain.Definition, error) {
	def := &domain.Definition{
		Name:          d.Name,
		Description:   d.Description,
		InitialState:  domain.State(d.InitialState),
		States:        make([]domain.State, len(d.States)),
		InputAlphabet: make([]domain.Symbol, len(d.InputAlphabet)),
		StackAlphabet: make([]domain.Symbol, len(d.StackAlphabet)),
		FinalStates:   make([]domain.State, len(d.FinalStates)),
	}
	for i, s := range d.States {
		def.States[i] = domain.State(s)
	}
	for i, s := range d.InputAlphabet {
		def.InputAlphabet[i] = domain.Symbol(s)
	}
	for i, s := range d.StackAlphabet {
		def.StackAlphabet[i] = domain.Symbol(s)
	}
	for i, s := range d.FinalStates {
		def.FinalStates[i] = domain.State(s)
	}

	var errs []error

	initial, err := normalizeInitialStack(d.InitialStack)
	if err != nil {
		errs = append(errs, err)
	}
	def.InitialStackSymbol = initial

	def.Transitions = make([]domain.Transition, len(d.Transitions))
	for i, t := range d.Transitions {
		push, err := normalizePush(t.Push)
		if err != nil {
			errs = append(errs, &schema.ValidationError{
				Field:  fmt.Sprintf("transitions[%d].push", i),
				Reason: err.Error(),
				Value:  t.Push,
			})
		}
		def.Transitions[i] = domain.Transition{
			From:  domain.State(t.From),
			To:    domain.State(t.To),
			Input: NormalizeSymbol(t.Read),
			Pop:   NormalizeSymbol(t.Pop),
			Push:  push,
		}
	}

	errs = append(errs, validator.Check(def)...)
	if err := schema.Aggregate(errs); err != nil {
		return nil, err
	}
	return def, nil
}

// normalizeInitialStack accepts the scalar and one-element list spellings.
// The classical machine starts with exactly one symbol on the stack.
func normalizeInitialStack(raw any) (domain.Symbol, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil // validator reports the missing field
	case string:
		return domain.Symbol(v), nil
	case []string:
		return initialFromList(len(v), func(i int) string { return v[i] })
	case []any:
		return initialFromList(len(v), func(i int) string { return fmt.Sprintf("%v", v[i]) })
	default:
		return "", &schema.ValidationError{
			Field:  "initial_stack",
			Reason: "must be a symbol or a one-element list",
			Value:  raw,
		}
	}
}

func initialFromList(n int, at func(int) string) (domain.Symbol, error) {
	switch n {
	case 0:
		return "", nil
	case 1:
		return domain.Symbol(at(0)), nil
	default:
		return "", &schema.ValidationError{
			Field:  "initial_stack",
			Reason: "exactly one initial stack symbol is allowed",
			Value:  n,
		}
	}
}

// normalizePush accepts a list of symbols or the compact string form. The
// compact form splits per rune: "XZ" pushes X then Z, leaving Z on top.
// Multi-rune symbols need the list form.
func normalizePush(raw any) ([]domain.Symbol, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if epsilonAliases[v] {
			return nil, nil
		}
		var out []domain.Symbol
		for _, r := range v {
			out = append(out, domain.Symbol(r))
		}
		return out, nil
	case []string:
		out := make([]domain.Symbol, len(v))
		for i, s := range v {
			out[i] = domain.Symbol(s)
		}
		return out, nil
	case []any:
		out := make([]domain.Symbol, len(v))
		for i, s := range v {
			out[i] = domain.Symbol(fmt.Sprintf("%v", s))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list of symbols or a compact string")
	}
}
