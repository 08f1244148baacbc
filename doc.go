/*
Package espalier simulates nondeterministic pushdown automata (PDA): it
decides whether an automaton accepts an input word, and shows how.

An automaton is a set of states, two alphabets, and transitions that read an
input symbol, pop a stack symbol, and push a replacement string. Because the
machine is nondeterministic, several transitions may apply at once; the
engine explores every branch breadth-first and reports the first accepting
path it finds, as a step-by-step trace.

# Key Features

  - Exhaustive search: every reachable configuration is visited at most once,
    so runs terminate even with ε-cycles in the definition.
  - Reproducible traces: the search order follows the definition's transition
    order, making the accepting path stable across runs.
  - Acceptance modes: by final state (default), by empty stack, or both.
  - Interactive sessions: drive the machine one transition at a time, with
    backtracking, for teaching and debugging.

# Usage

Point New at a definition file, then run words against it:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
	)

	func main() {
		eng, err := espalier.New("machines/balanced-parens.yaml")
		if err != nil {
			log.Fatal(err)
		}

		result, err := eng.Run(context.Background(), "(()())")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(result.Verdict) // accepted
		for _, step := range result.Trace {
			fmt.Println(step)
		}
	}

Definitions can also be built in code with WithDefinition, or fluently via
the dsl subpackage. The engine itself is stateless and safe for concurrent
runs; interactive Sessions are not.
*/
package espalier
