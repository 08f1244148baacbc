package validator_test

import (
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

func validDefinition() *domain.Definition {
	return &domain.Definition{
		Name:               "anbn",
		States:             []domain.State{"q0", "q1", "qf"},
		InputAlphabet:      []domain.Symbol{"a", "b"},
		StackAlphabet:      []domain.Symbol{"Z", "A"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"qf"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "a", Pop: domain.Epsilon, Push: []domain.Symbol{"A"}},
			{From: "q0", To: "q1", Input: "b", Pop: "A"},
			{From: "q1", To: "qf", Input: domain.EndMarker, Pop: "Z", Push: []domain.Symbol{"Z"}},
		},
	}
}

func TestCheckValidDefinition(t *testing.T) {
	if errs := validator.Check(validDefinition()); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
	if err := validator.Validate(validDefinition()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestCheckUnknownTransitionTarget(t *testing.T) {
	def := validDefinition()
	def.Transitions = append(def.Transitions, domain.Transition{
		From: "q0", To: "ghost", Input: "a", Pop: domain.Epsilon,
	})

	errs := validator.Check(def)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %v", len(errs), errs)
	}
	ve, ok := errs[0].(*schema.ValidationError)
	if !ok {
		t.Fatalf("violation is %T, want *schema.ValidationError", errs[0])
	}
	if !strings.HasSuffix(ve.Field, ".to") {
		t.Errorf("violation field = %q, want a transition .to path", ve.Field)
	}
	if ve.Value != "ghost" {
		t.Errorf("violation should name the unknown state, got %v", ve.Value)
	}
}

func TestCheckReportsAllViolations(t *testing.T) {
	def := &domain.Definition{
		States:             []domain.State{"q0", "q0"},          // duplicate
		InputAlphabet:      []domain.Symbol{"a", "a", "ε"},      // duplicate + control
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "missing",                           // unknown
		InitialStackSymbol: "X",                                 // not in stack alphabet
		FinalStates:        []domain.State{"nowhere"},           // unknown
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "z", Pop: "Y", Push: []domain.Symbol{"W", "?"}},
		},
	}

	errs := validator.Check(def)
	// duplicate state, duplicate symbol, control in alphabet, initial state,
	// initial stack, final state, read, pop, two push symbols.
	if len(errs) != 10 {
		t.Fatalf("expected 10 violations, got %d:\n%v", len(errs), schema.Aggregate(errs))
	}
}

func TestCheckRequiredFields(t *testing.T) {
	def := &domain.Definition{}
	errs := validator.Check(def)

	var fields []string
	for _, err := range errs {
		fields = append(fields, err.(*schema.ValidationError).Field)
	}
	for _, want := range []string{"states", "initial_state", "initial_stack"} {
		found := false
		for _, f := range fields {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing violation for %q in %v", want, fields)
		}
	}
}

func TestValidateWrapsAggregate(t *testing.T) {
	def := validDefinition()
	def.InitialState = "missing"

	err := validator.Validate(def)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*schema.AggregateError); !ok {
		t.Errorf("error is %T, want *schema.AggregateError", err)
	}
	if len(schema.ValidationErrors(err)) != 1 {
		t.Errorf("expected one wrapped violation")
	}
}

func TestWarningsUnreachableFinalState(t *testing.T) {
	// An unreachable final state is NOT a violation, only a warning; the
	// automaton simply never accepts.
	def := &domain.Definition{
		States:             []domain.State{"q0", "island"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"island"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "a", Pop: domain.Epsilon},
		},
	}

	if errs := validator.Check(def); len(errs) != 0 {
		t.Fatalf("unreachable states must not be violations, got %v", errs)
	}

	warnings := validator.Warnings(def)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], `final state "island"`) {
		t.Errorf("warning should name the unreachable final state: %q", warnings[0])
	}
}

func TestWarningsCleanDefinition(t *testing.T) {
	if w := validator.Warnings(validDefinition()); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}

func TestWarningsUnusedStackSymbol(t *testing.T) {
	def := validDefinition()
	def.StackAlphabet = append(def.StackAlphabet, "X")

	if errs := validator.Check(def); len(errs) != 0 {
		t.Fatalf("an unused stack symbol must not be a violation, got %v", errs)
	}

	warnings := validator.Warnings(def)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], `stack symbol "X"`) {
		t.Errorf("warning should name the unused symbol: %q", warnings[0])
	}

	// The initial stack symbol counts as used even when no rule touches it.
	minimal := &domain.Definition{
		States:             []domain.State{"q0"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"q0"},
	}
	if w := validator.Warnings(minimal); len(w) != 0 {
		t.Errorf("initial stack symbol should count as used, got %v", w)
	}
}
