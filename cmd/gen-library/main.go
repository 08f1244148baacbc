// Command gen-library writes a starter definition library to disk: three
// classic context-free languages, ready for the library, serve and mcp verbs
// to pick up. Run it once to bootstrap a machines/ directory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

const parensDoc = `---
name: parens
states: [q0, qf]
input_alphabet: ["(", ")"]
stack_alphabet: [Z, P]
initial_state: q0
initial_stack: Z
final_states: [qf]
transitions:
  - {from: q0, to: q0, read: "(", pop: Z, push: [Z, P]}
  - {from: q0, to: q0, read: "(", pop: P, push: [P, P]}
  - {from: q0, to: q0, read: ")", pop: P, push: []}
  - {from: q0, to: qf, read: ε, pop: Z, push: [Z]}
---
Balanced parentheses, accepted by final state.

Every opening parenthesis pushes a P; every closing one pops a P. The walk
may move to the accepting state only when the stack is back down to the
bottom marker, so unmatched closers and leftover openers both reject.
`

const evenPalindromeDoc = `---
name: even-palindrome
states: [push, pop, done]
input_alphabet: [a, b]
stack_alphabet: [Z, A, B]
initial_state: push
initial_stack: Z
final_states: [done]
transitions:
  - {from: push, to: push, read: a, push: [A]}
  - {from: push, to: push, read: b, push: [B]}
  - {from: push, to: pop}
  - {from: pop, to: pop, read: a, pop: A, push: []}
  - {from: pop, to: pop, read: b, pop: B, push: []}
  - {from: pop, to: done, read: ε, pop: Z, push: [Z]}
---
Even-length palindromes over a and b.

The machine guesses the middle of the word: an ε-transition jumps from the
pushing phase to the popping phase at some point the search explores
nondeterministically. Only the guess that splits the word exactly in half
drains the stack in time, and the search finds it if it exists.
`

const anbnDoc = `---
name: an-bn
states: [load, drain, ok]
input_alphabet: [a, b]
stack_alphabet: [Z, A]
initial_state: load
initial_stack: Z
final_states: [ok]
transitions:
  - {from: load, to: load, read: a, push: [A]}
  - {from: load, to: ok, read: ε, pop: Z, push: [Z]}
  - {from: load, to: drain, read: b, pop: A, push: []}
  - {from: drain, to: drain, read: b, pop: A, push: []}
  - {from: drain, to: ok, read: ε, pop: Z, push: [Z]}
---
The language aⁿbⁿ for n ≥ 0.

Each a stacks an A; each b pops one. Once a b has been read no further a is
legal, which the state split between load and drain enforces.
`

func main() {
	targetDir := "machines"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating starter library in: %s\n", targetDir)

	// Init Loam (No Versioning = pure file generation)
	repo, err := loam.Init(targetDir, loam.WithVersioning(false))
	if err != nil {
		panic(err)
	}

	ctx := context.TODO()

	docs := []core.Document{
		{ID: "parens.md", Content: parensDoc},
		{ID: "even-palindrome.md", Content: evenPalindromeDoc},
		{ID: "an-bn.md", Content: anbnDoc},
	}
	for _, doc := range docs {
		check(repo.Save(ctx, doc))
	}

	fmt.Println("Done. Verify contents in", targetDir)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
