package dsl

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
)

func TestBuilder_InfersFromTransitions(t *testing.T) {
	// 1. Build the machine; only the skeleton is declared explicitly.
	b := New("balanced-parens").
		Description("Balanced parentheses by final state.").
		Start("q0").
		StackStart("Z").
		Final("qf")

	b.From("q0").Read("(").Pop("Z").Push("Z", "P").To("q0")
	b.From("q0").Read("(").Pop("P").Push("P", "P").To("q0")
	b.From("q0").Read(")").Pop("P").To("q0")
	b.From("q0").Pop("Z").Push("Z").To("qf")

	// 2. Compile
	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify inference
	if len(def.States) != 2 {
		t.Errorf("Expected 2 inferred states, got %v", def.States)
	}
	if len(def.InputAlphabet) != 2 {
		t.Errorf("Expected 2 inferred input symbols, got %v", def.InputAlphabet)
	}
	if len(def.StackAlphabet) != 2 {
		t.Errorf("Expected 2 inferred stack symbols, got %v", def.StackAlphabet)
	}
	if len(def.Transitions) != 4 {
		t.Fatalf("Expected 4 transitions, got %d", len(def.Transitions))
	}

	// Read/Pop default to ε when never set.
	last := def.Transitions[3]
	if !last.Input.IsEpsilon() {
		t.Errorf("Expected unset read to default to ε, got %q", last.Input)
	}

	// 4. The built machine actually runs.
	eng := runtime.NewEngine(def)
	res, err := eng.RunWord(context.Background(), "(()())")
	if err != nil {
		t.Fatalf("RunWord failed: %v", err)
	}
	if res.Verdict != domain.VerdictAccepted {
		t.Errorf("Expected built machine to accept, got %s (%s)", res.Verdict, res.Reason)
	}
}

func TestBuilder_DeclaredOrderWins(t *testing.T) {
	b := New("ordered").
		States("first", "second").
		InputAlphabet("x", "y").
		StackAlphabet("Z", "B").
		Start("first").
		StackStart("Z").
		Final("second")

	// The transition mentions symbols in the opposite order; declaration
	// order must survive.
	b.From("first").Read("y").Pop("B").To("second")
	b.From("first").Read("x").Pop("Z").Push("Z", "B").To("first")

	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if def.States[0] != "first" || def.States[1] != "second" {
		t.Errorf("Expected declared state order, got %v", def.States)
	}
	if def.InputAlphabet[0] != "x" || def.InputAlphabet[1] != "y" {
		t.Errorf("Expected declared input order, got %v", def.InputAlphabet)
	}
	if def.StackAlphabet[0] != "Z" || def.StackAlphabet[1] != "B" {
		t.Errorf("Expected declared stack order, got %v", def.StackAlphabet)
	}
}

func TestBuilder_EndMarkers(t *testing.T) {
	b := New("drain").
		Start("q0").
		StackStart("Z")

	b.From("q0").Read("a").Pop("Z").To("q0")
	b.From("q0").WhenInputDone().WhenStackEmpty().To("done")

	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	marker := def.Transitions[1]
	if !marker.Input.IsEndMarker() || !marker.Pop.IsEndMarker() {
		t.Errorf("Expected end markers on both positions, got read=%q pop=%q", marker.Input, marker.Pop)
	}
	// Control symbols must not leak into the alphabets.
	for _, s := range def.InputAlphabet {
		if s.IsControl() {
			t.Errorf("Control symbol %q leaked into the input alphabet", s)
		}
	}
}

func TestBuilder_ValidatesOnBuild(t *testing.T) {
	// Inference covers states and alphabets, but it cannot invent the
	// initial stack symbol.
	b := New("broken").Start("q0")
	b.From("q0").Read("a").Pop("Z").To("q0")

	_, err := b.Build()
	if err == nil {
		t.Fatal("Expected validation error for missing initial stack symbol")
	}
	if !strings.Contains(err.Error(), "initial_stack") {
		t.Errorf("Expected error to name initial_stack, got: %v", err)
	}
}
