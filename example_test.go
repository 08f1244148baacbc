package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// ExampleNew demonstrates building an automaton in code and running a word
// against it. This is useful for testing, embedded scenarios, or when you
// don't want to rely on the file system.
func ExampleNew() {
	// 1. Define the automaton using pure Go structs. This one accepts
	// balanced parentheses by final state.
	def := &domain.Definition{
		Name:               "balanced-parens",
		States:             []domain.State{"q0", "qf"},
		InputAlphabet:      []domain.Symbol{"(", ")"},
		StackAlphabet:      []domain.Symbol{"Z", "P"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"qf"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "(", Pop: "Z", Push: []domain.Symbol{"Z", "P"}},
			{From: "q0", To: "q0", Input: "(", Pop: "P", Push: []domain.Symbol{"P", "P"}},
			{From: "q0", To: "q0", Input: ")", Pop: "P"},
			{From: "q0", To: "qf", Input: domain.Epsilon, Pop: "Z", Push: []domain.Symbol{"Z"}},
		},
	}

	// 2. Initialize the Engine with the in-memory definition.
	// No file path needed ("") because we are providing the definition.
	eng, err := espalier.New("", espalier.WithDefinition(def))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Run a word. The result carries the verdict and, on acceptance,
	// the full path the machine took.
	result, err := eng.Run(context.Background(), "(())")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Verdict)
	for _, line := range result.Trace.Lines() {
		fmt.Println(line)
	}
	// Output:
	// accepted
	// q0 → q0 [read: (, pop: Z, push: Z,P]
	// q0 → q0 [read: (, pop: P, push: P,P]
	// q0 → q0 [read: ), pop: P, push: ε]
	// q0 → q0 [read: ), pop: P, push: ε]
	// q0 → qf [read: ε, pop: Z, push: Z]
}
