package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/pkg/domain"
)

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const parensYAML = `
name: balanced-parens
description: Balanced parentheses, accepted by empty stack.
states: [q0]
input_alphabet: ["(", ")"]
stack_alphabet: [Z, P]
initial_state: q0
initial_stack: Z
final_states: []
transitions:
  - {from: q0, to: q0, read: "(", pop: Z, push: [Z, P]}
  - {from: q0, to: q0, read: "(", pop: P, push: [P, P]}
  - {from: q0, to: q0, read: ")", pop: P, push: []}
  - {from: q0, to: q0, read: ε, pop: Z, push: []}
`

func TestLoadYAML(t *testing.T) {
	path := writeDefinition(t, "parens.yaml", parensYAML)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if def.Name != "balanced-parens" {
		t.Errorf("name = %q", def.Name)
	}
	if def.Description == "" {
		t.Error("description lost")
	}
	if len(def.Transitions) != 4 {
		t.Errorf("transitions = %d, want 4", len(def.Transitions))
	}
	if def.Transitions[3].Input != domain.Epsilon {
		t.Errorf("epsilon read = %q", def.Transitions[3].Input)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeDefinition(t, "machine.json", `{
  "states": ["q0", "q1"],
  "input_alphabet": ["a"],
  "stack_alphabet": ["Z"],
  "initial_state": "q0",
  "initial_stack": ["Z"],
  "final_states": ["q1"],
  "transitions": [
    {"from": "q0", "to": "q1", "read": "a", "pop": "Z", "push": ["Z"]}
  ]
}`)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if def.Name != "machine" {
		t.Errorf("name should default to the file base, got %q", def.Name)
	}
	if def.InitialStackSymbol != "Z" {
		t.Errorf("initial stack = %q", def.InitialStackSymbol)
	}
}

func TestLoadASCII(t *testing.T) {
	path := writeDefinition(t, "anbn.pda", `
# a^n b^n by final state
STATES: q0, q1, qf
INPUT: a, b
STACK: Z, A
INITIAL: q0
INITIAL_STACK: Z  # single start symbol
FINAL: qf

q0 -> q0 [read=a, push=A]
q0 -> q1 [read=b, pop=A]
q1 -> q1 [read=b, pop=A]
q0 -> qf [read=?, pop=Z, push=Z]
q1 -> qf [read=?, pop=Z, push=Z]
`)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(def.States) != 3 || len(def.Transitions) != 5 {
		t.Fatalf("states/transitions = %d/%d, want 3/5", len(def.States), len(def.Transitions))
	}
	// Omitted pop defaults to ε; compact push splits per rune.
	first := def.Transitions[0]
	if first.Pop != domain.Epsilon {
		t.Errorf("omitted pop = %q, want ε", first.Pop)
	}
	if len(first.Push) != 1 || first.Push[0] != "A" {
		t.Errorf("push = %v, want [A]", first.Push)
	}
	if def.Transitions[3].Input != domain.EndMarker {
		t.Errorf("read = %q, want end marker", def.Transitions[3].Input)
	}
}

func TestLoadASCIIErrorsCarryLineNumbers(t *testing.T) {
	path := writeDefinition(t, "broken.txt", `STATES: q0
COLOR: blue
`)

	_, err := loader.Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should carry the line number: %v", err)
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeDefinition(t, "parens.csv", `# balanced parentheses
#META,name,parens-csv
#META,states,q0
#META,input_alphabet,(;)
#META,stack_alphabet,Z;P
#META,initial_state,q0
#META,initial_stack,Z
#META,final_states,
from,to,read,pop,push
q0,q0,(,Z,ZP
q0,q0,(,P,PP
q0,q0,),P,ε
q0,q0,ε,Z,ε
`)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if def.Name != "parens-csv" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Transitions) != 4 {
		t.Fatalf("transitions = %d, want 4", len(def.Transitions))
	}
	if got := def.Transitions[0].Push; len(got) != 2 || got[0] != "Z" || got[1] != "P" {
		t.Errorf("compact push = %v, want [Z P]", got)
	}
	if len(def.Transitions[2].Push) != 0 {
		t.Errorf("push ε = %v, want empty", def.Transitions[2].Push)
	}
}

func TestLoadHCL(t *testing.T) {
	path := writeDefinition(t, "parens.hcl", `
automaton "parens-hcl" {
  description    = "Balanced parentheses."
  states         = ["q0"]
  input_alphabet = ["(", ")"]
  stack_alphabet = ["Z", "P"]
  initial_state  = "q0"
  initial_stack  = "Z"
}

transition "q0" "q0" {
  read = "("
  pop  = "Z"
  push = ["Z", "P"]
}

transition "q0" "q0" {
  read = "("
  pop  = "P"
  push = ["P", "P"]
}

transition "q0" "q0" {
  read = ")"
  pop  = "P"
}

transition "q0" "q0" {
  read = epsilon
  pop  = "Z"
}
`)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if def.Name != "parens-hcl" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Transitions) != 4 {
		t.Fatalf("transitions = %d, want 4", len(def.Transitions))
	}
	// The epsilon eval variable resolves to the glyph.
	if def.Transitions[3].Input != domain.Epsilon {
		t.Errorf("epsilon variable = %q, want ε", def.Transitions[3].Input)
	}
}

func TestLoadMarkdown(t *testing.T) {
	path := writeDefinition(t, "parens.md", `---
name: parens-md
states: [q0]
input_alphabet: ["(", ")"]
stack_alphabet: [Z, P]
initial_state: q0
initial_stack: Z
transitions:
  - {from: q0, to: q0, read: "(", pop: Z, push: [Z, P]}
  - {from: q0, to: q0, read: "(", pop: P, push: [P, P]}
  - {from: q0, to: q0, read: ")", pop: P}
  - {from: q0, to: q0, pop: Z}
---

Accepts balanced parentheses when run with the empty stack mode.
`)

	def, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if def.Name != "parens-md" {
		t.Errorf("name = %q", def.Name)
	}
	if !strings.Contains(def.Description, "balanced parentheses") {
		t.Errorf("body should become the description, got %q", def.Description)
	}
}

func TestLoadMarkdownWithoutFrontmatter(t *testing.T) {
	path := writeDefinition(t, "plain.md", "# Just a readme\n")

	_, err := loader.Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "frontmatter") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeDefinition(t, "machine.xyz", "whatever")

	_, err := loader.Load(path)
	var defErr *domain.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("err = %T (%v), want DefinitionError", err, err)
	}
	if !strings.Contains(err.Error(), ".xyz") {
		t.Errorf("error should name the extension: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidDefinitionAggregatesViolations(t *testing.T) {
	path := writeDefinition(t, "broken.yaml", `
states: [q0]
input_alphabet: [a]
stack_alphabet: [Z]
initial_state: ghost
initial_stack: X
transitions:
  - {from: q0, to: nowhere, read: a, pop: Z}
`)

	_, err := loader.Load(path)
	var defErr *domain.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("err = %T, want DefinitionError", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ghost", "X", "nowhere"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("aggregate should mention %q: %v", fragment, msg)
		}
	}
}

func TestFormatEquivalence(t *testing.T) {
	// The same machine through two formats lands on the same definition.
	yamlDef, err := loader.Load(writeDefinition(t, "m.yaml", parensYAML))
	if err != nil {
		t.Fatalf("yaml load failed: %v", err)
	}
	csvDef, err := loader.Load(writeDefinition(t, "m.csv", `#META,states,q0
#META,input_alphabet,(;)
#META,stack_alphabet,Z;P
#META,initial_state,q0
#META,initial_stack,Z
from,to,read,pop,push
q0,q0,(,Z,ZP
q0,q0,(,P,PP
q0,q0,),P,ε
q0,q0,ε,Z,ε
`))
	if err != nil {
		t.Fatalf("csv load failed: %v", err)
	}

	if len(yamlDef.Transitions) != len(csvDef.Transitions) {
		t.Fatalf("transition counts differ: %d vs %d", len(yamlDef.Transitions), len(csvDef.Transitions))
	}
	for i := range yamlDef.Transitions {
		if yamlDef.Transitions[i].String() != csvDef.Transitions[i].String() {
			t.Errorf("transition %d differs: %s vs %s",
				i, yamlDef.Transitions[i], csvDef.Transitions[i])
		}
	}
}

func TestFromMap(t *testing.T) {
	def, err := loader.FromMap(map[string]any{
		"states":         []any{"q0"},
		"input_alphabet": []any{"a"},
		"stack_alphabet": []any{"Z"},
		"initial_state":  "q0",
		"initial_stack":  "Z",
	}, "inline")
	if err != nil {
		t.Fatalf("from map failed: %v", err)
	}
	if def.InitialState != "q0" {
		t.Errorf("initial state = %q", def.InitialState)
	}
}

func TestLoadBytesByFormatName(t *testing.T) {
	def, err := loader.LoadBytes([]byte(parensYAML), "yaml", "inline")
	if err != nil {
		t.Fatalf("load bytes failed: %v", err)
	}
	if def.Name != "balanced-parens" {
		t.Errorf("name = %q", def.Name)
	}

	if _, err := loader.LoadBytes([]byte("x"), "toml", "inline"); err == nil {
		t.Error("unknown format name should fail")
	}
}
