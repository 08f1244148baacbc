package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryRunStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, memory.NewRunStore())
}

func TestMemoryLibrary_Contract(t *testing.T) {
	lib := memory.NewLibrary()

	defs := map[string]domain.State{
		"parens": "q0",
		"anbn":   "s0",
	}
	for name, initial := range defs {
		err := lib.Register(&domain.Definition{
			Name:               name,
			States:             []domain.State{initial},
			InitialState:       initial,
			InitialStackSymbol: "Z",
			StackAlphabet:      []domain.Symbol{"Z"},
		})
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	tests.LibraryContractTest(t, lib, defs)
}

func TestMemoryLibrary_RejectsAnonymous(t *testing.T) {
	lib := memory.NewLibrary()
	if err := lib.Register(&domain.Definition{}); err == nil {
		t.Error("registering a nameless definition should fail")
	}
	if err := lib.Register(nil); err == nil {
		t.Error("registering nil should fail")
	}
}

func TestMemoryRunStore_FillsID(t *testing.T) {
	store := memory.NewRunStore()
	rec := &domain.RunRecord{Definition: "parens", Input: "()"}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID == "" {
		t.Error("Append should fill a missing ID")
	}
}
