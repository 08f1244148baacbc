package domain

import (
	"reflect"
	"testing"
)

func TestTransitionApplicable(t *testing.T) {
	cfg := Configuration{State: "q0", Remaining: []Symbol{"a", "b"}, Stack: Stack{"Z"}}
	emptyInput := Configuration{State: "q0", Remaining: nil, Stack: Stack{"Z"}}
	emptyStack := Configuration{State: "q0", Remaining: []Symbol{"a"}, Stack: nil}

	cases := []struct {
		name string
		tr   Transition
		cfg  Configuration
		want bool
	}{
		{"literal read and pop match", Transition{From: "q0", To: "q1", Input: "a", Pop: "Z"}, cfg, true},
		{"wrong state", Transition{From: "q1", To: "q2", Input: "a", Pop: "Z"}, cfg, false},
		{"wrong input symbol", Transition{From: "q0", To: "q1", Input: "b", Pop: "Z"}, cfg, false},
		{"wrong stack top", Transition{From: "q0", To: "q1", Input: "a", Pop: "X"}, cfg, false},
		{"epsilon read ignores input", Transition{From: "q0", To: "q1", Input: Epsilon, Pop: "Z"}, cfg, true},
		{"epsilon pop ignores stack", Transition{From: "q0", To: "q1", Input: "a", Pop: Epsilon}, emptyStack, true},
		{"literal read needs input", Transition{From: "q0", To: "q1", Input: "a", Pop: Epsilon}, emptyInput, false},
		{"literal pop needs stack", Transition{From: "q0", To: "q1", Input: "a", Pop: "Z"}, emptyStack, false},
		{"end marker read wants exhausted input", Transition{From: "q0", To: "q1", Input: EndMarker, Pop: Epsilon}, emptyInput, true},
		{"end marker read rejects pending input", Transition{From: "q0", To: "q1", Input: EndMarker, Pop: Epsilon}, cfg, false},
		{"end marker pop wants empty stack", Transition{From: "q0", To: "q1", Input: Epsilon, Pop: EndMarker}, emptyStack, true},
		{"end marker pop rejects symbols", Transition{From: "q0", To: "q1", Input: Epsilon, Pop: EndMarker}, cfg, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tr.Applicable(tc.cfg); got != tc.want {
				t.Errorf("Applicable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransitionApply(t *testing.T) {
	cfg := Configuration{State: "q0", Remaining: []Symbol{"a", "b"}, Stack: Stack{"Z"}}

	tr := Transition{From: "q0", To: "q1", Input: "a", Pop: "Z", Push: []Symbol{"X", "Z"}}
	next := tr.Apply(cfg)

	if next.State != "q1" {
		t.Errorf("state = %s, want q1", next.State)
	}
	if !reflect.DeepEqual(next.Remaining, []Symbol{"b"}) {
		t.Errorf("remaining = %v, want [b]", next.Remaining)
	}
	// Push is ordered so the last element ends on top.
	if !reflect.DeepEqual(next.Stack, Stack{"X", "Z"}) {
		t.Errorf("stack = %v, want [X Z]", next.Stack)
	}

	// The source configuration must be untouched.
	if len(cfg.Remaining) != 2 || cfg.Stack.Len() != 1 {
		t.Errorf("source configuration mutated: %s", cfg)
	}
}

func TestTransitionApplyEpsilonAndEndMarker(t *testing.T) {
	t.Run("epsilon consumes and pops nothing", func(t *testing.T) {
		cfg := Configuration{State: "q0", Remaining: []Symbol{"a"}, Stack: Stack{"Z"}}
		tr := Transition{From: "q0", To: "q1", Input: Epsilon, Pop: Epsilon, Push: []Symbol{"A"}}
		next := tr.Apply(cfg)
		if len(next.Remaining) != 1 {
			t.Errorf("epsilon read consumed input: %v", next.Remaining)
		}
		if !reflect.DeepEqual(next.Stack, Stack{"Z", "A"}) {
			t.Errorf("stack = %v, want [Z A]", next.Stack)
		}
	})

	t.Run("end marker pop leaves empty stack empty", func(t *testing.T) {
		cfg := Configuration{State: "q0", Remaining: nil, Stack: nil}
		tr := Transition{From: "q0", To: "qf", Input: EndMarker, Pop: EndMarker}
		next := tr.Apply(cfg)
		if !next.Stack.Empty() {
			t.Errorf("end marker pop should not touch the stack, got %v", next.Stack)
		}
		if next.State != "qf" {
			t.Errorf("state = %s, want qf", next.State)
		}
	})
}

func TestTransitionString(t *testing.T) {
	tr := Transition{From: "q0", To: "q1", Input: "a", Pop: "Z", Push: []Symbol{"X", "Z"}}
	want := "q0 → q1 [read: a, pop: Z, push: X,Z]"
	if got := tr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	empty := Transition{From: "q1", To: "q1", Input: Epsilon, Pop: "Z", Push: nil}
	want = "q1 → q1 [read: ε, pop: Z, push: ε]"
	if got := empty.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
