// Package testutils holds helpers for tests that need a loam-backed
// definition library on disk.
package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a loam
// repository in it, failing the test on error. The returned path is
// absolute, which loam prefers.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "failed to resolve temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "failed to init loam repo")

	return absPath, repo
}

// SeedDocuments saves documents (ID to full file content, frontmatter
// included) into the repository.
func SeedDocuments(t *testing.T, repo core.Repository, docs map[string]string) {
	t.Helper()

	ctx := context.Background()
	for id, content := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: id, Content: content}),
			"failed to seed %s", id)
	}
}

// BalancedParensDoc is a complete markdown definition document for the
// balanced-parentheses automaton, for tests that need any valid library
// entry.
const BalancedParensDoc = `---
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
Accepts strings of balanced parentheses by final state.
`

// AnBnDoc accepts aⁿbⁿ for n ≥ 0.
const AnBnDoc = `---
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
As many a as b, with every a before every b.
`

// EvenPalindromeDoc accepts even-length palindromes over {a, b}, the
// standard nondeterministic guess-the-middle machine.
const EvenPalindromeDoc = `---
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
`
