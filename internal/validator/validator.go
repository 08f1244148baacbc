// Package validator checks automaton definitions against the structural
// rules every other component assumes: declared memberships, alphabet
// hygiene and transition endpoints. Checks report every violation at once
// so a definition can be fixed in one pass.
package validator

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

// Check returns all structural violations of the definition, in a stable
// order. An empty slice means the definition is valid.
func Check(def *domain.Definition) []error {
	var errs []error

	fail := func(field, reason string, value any) {
		errs = append(errs, &schema.ValidationError{Field: field, Reason: reason, Value: value})
	}

	if len(def.States) == 0 {
		fail("states", "at least one state is required", nil)
	}
	seenStates := make(map[domain.State]bool, len(def.States))
	for i, s := range def.States {
		if s == "" {
			fail(fmt.Sprintf("states[%d]", i), "state name must not be empty", nil)
			continue
		}
		if seenStates[s] {
			fail(fmt.Sprintf("states[%d]", i), "duplicate state", string(s))
		}
		seenStates[s] = true
	}

	checkAlphabet(&errs, "input_alphabet", def.InputAlphabet)
	checkAlphabet(&errs, "stack_alphabet", def.StackAlphabet)

	if def.InitialState == "" {
		fail("initial_state", "required", nil)
	} else if !def.HasState(def.InitialState) {
		fail("initial_state", "not a declared state", string(def.InitialState))
	}

	if def.InitialStackSymbol == "" {
		fail("initial_stack", "required", nil)
	} else if def.InitialStackSymbol.IsControl() {
		fail("initial_stack", "must be a plain stack symbol", string(def.InitialStackSymbol))
	} else if !def.InStackAlphabet(def.InitialStackSymbol) {
		fail("initial_stack", "not in the stack alphabet", string(def.InitialStackSymbol))
	}

	for i, s := range def.FinalStates {
		if !def.HasState(s) {
			fail(fmt.Sprintf("final_states[%d]", i), "not a declared state", string(s))
		}
	}

	for i, t := range def.Transitions {
		path := func(part string) string { return fmt.Sprintf("transitions[%d].%s", i, part) }

		if !def.HasState(t.From) {
			fail(path("from"), "not a declared state", string(t.From))
		}
		if !def.HasState(t.To) {
			fail(path("to"), "not a declared state", string(t.To))
		}
		if !t.Input.IsControl() && !def.InInputAlphabet(t.Input) {
			fail(path("read"), "not in the input alphabet", string(t.Input))
		}
		if !t.Pop.IsControl() && !def.InStackAlphabet(t.Pop) {
			fail(path("pop"), "not in the stack alphabet", string(t.Pop))
		}
		for j, p := range t.Push {
			if p.IsControl() {
				fail(path(fmt.Sprintf("push[%d]", j)), "control symbols cannot be pushed", string(p))
			} else if !def.InStackAlphabet(p) {
				fail(path(fmt.Sprintf("push[%d]", j)), "not in the stack alphabet", string(p))
			}
		}
	}

	return errs
}

func checkAlphabet(errs *[]error, field string, symbols []domain.Symbol) {
	seen := make(map[domain.Symbol]bool, len(symbols))
	for i, s := range symbols {
		switch {
		case s == "":
			*errs = append(*errs, &schema.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Reason: "symbol must not be empty",
			})
		case s.IsControl():
			*errs = append(*errs, &schema.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Reason: "control symbols cannot be alphabet members",
				Value:  string(s),
			})
		case seen[s]:
			*errs = append(*errs, &schema.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, i),
				Reason: "duplicate symbol",
				Value:  string(s),
			})
		}
		seen[s] = true
	}
}

// Validate wraps Check in a single error, nil when the definition is valid.
func Validate(def *domain.Definition) error {
	return schema.Aggregate(Check(def))
}

// Warnings reports advisory findings that do not make a definition invalid:
// states no walk from the initial state can ever visit, and stack symbols no
// transition touches. A crawler walks the state graph along transition
// edges, symbols ignored.
func Warnings(def *domain.Definition) []string {
	if !def.HasState(def.InitialState) {
		return nil
	}

	visited := make(map[domain.State]bool)
	queue := []domain.State{def.InitialState}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, t := range def.Transitions {
			if t.From == current && !visited[t.To] {
				queue = append(queue, t.To)
			}
		}
	}

	var warnings []string
	for _, s := range def.States {
		if !visited[s] {
			kind := "state"
			if def.IsFinal(s) {
				kind = "final state"
			}
			warnings = append(warnings, fmt.Sprintf("%s %q is unreachable from %q", kind, s, def.InitialState))
		}
	}

	used := map[domain.Symbol]bool{def.InitialStackSymbol: true}
	for _, t := range def.Transitions {
		if !t.Pop.IsControl() {
			used[t.Pop] = true
		}
		for _, p := range t.Push {
			used[p] = true
		}
	}
	for _, s := range def.StackAlphabet {
		if !used[s] {
			warnings = append(warnings, fmt.Sprintf("stack symbol %q is never pushed or popped", s))
		}
	}
	return warnings
}
