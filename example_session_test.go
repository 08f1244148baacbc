package espalier_test

import (
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// ExampleEngine_NewSession demonstrates walking an automaton one transition
// at a time instead of letting the engine search. Each move the session
// offers the applicable transitions; the caller picks one.
func ExampleEngine_NewSession() {
	// A machine for a^n b^n (n >= 1): count a's on the stack, pop one per b.
	def := &domain.Definition{
		Name:               "an-bn",
		States:             []domain.State{"q0", "q1", "qf"},
		InputAlphabet:      []domain.Symbol{"a", "b"},
		StackAlphabet:      []domain.Symbol{"Z", "A"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"qf"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "a", Pop: "Z", Push: []domain.Symbol{"Z", "A"}},
			{From: "q0", To: "q0", Input: "a", Pop: "A", Push: []domain.Symbol{"A", "A"}},
			{From: "q0", To: "q1", Input: "b", Pop: "A"},
			{From: "q1", To: "q1", Input: "b", Pop: "A"},
			{From: "q1", To: "qf", Input: domain.Epsilon, Pop: "Z", Push: []domain.Symbol{"Z"}},
		},
	}

	eng, err := espalier.New("", espalier.WithDefinition(def))
	if err != nil {
		log.Fatal(err)
	}

	// Walk "ab". On this input every position offers exactly one move; a
	// nondeterministic spot would offer several and the caller would choose.
	sess := eng.NewSession("ab")
	fmt.Println(sess.Current())

	for sess.Verdict("") == domain.VerdictSearching {
		candidates := sess.Applicable()
		next, err := sess.Apply(candidates[0].Index)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(next)
	}

	fmt.Println(sess.Verdict(""))
	// Output:
	// (q0, ab, Z)
	// (q0, b, Z,A)
	// (q1, ε, Z)
	// (qf, ε, Z)
	// accepted
}
