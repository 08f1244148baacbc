// Package tests holds reusable contract suites for ports implemented
// outside this module. They use only the standard testing package so
// downstream adapters do not inherit extra test dependencies.
package tests

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// LibraryContractTest verifies that an adapter complies with ports.Library.
// expected maps definition names the library must serve to their initial
// states.
func LibraryContractTest(t *testing.T, lib ports.Library, expected map[string]domain.State) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, initial := range expected {
			def, err := lib.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting %s: %v", name, err)
			}
			if def.InitialState != initial {
				t.Errorf("initial state mismatch for %s. got %q, want %q", name, def.InitialState, initial)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := lib.Get(ctx, "non-existent-definition")
		if err == nil {
			t.Fatal("expected error for non-existent definition, got nil")
		}
		if !errors.Is(err, domain.ErrDefinitionNotFound) {
			t.Errorf("expected ErrDefinitionNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := lib.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}
		if len(names) < len(expected) {
			t.Fatalf("List returned %d names, want at least %d", len(names), len(expected))
		}
		if !sort.StringsAreSorted(names) {
			t.Errorf("List should return sorted names, got %v", names)
		}
		for name := range expected {
			found := false
			for _, n := range names {
				if n == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("List is missing %q: %v", name, names)
			}
		}
	})
}
