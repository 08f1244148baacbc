package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

func testSnapshot() *domain.Snapshot {
	def := domain.Definition{
		Name:               "tidy",
		States:             []domain.State{"q0"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
	}
	return &domain.Snapshot{
		SessionID:  "tidy",
		Definition: def,
		Mode:       domain.AcceptFinalState,
		Input:      domain.Symbols("a"),
		Current:    def.StartConfiguration(domain.Symbols("a")),
	}
}

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSessionStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	if store.BasePath != filepath.Join(".espalier", "sessions") {
		t.Errorf("default base path = %q", store.BasePath)
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	snap := testSnapshot()
	if err := store.Save(ctx, "tidy", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Overwrite to exercise the remove-then-rename branch.
	if err := store.Save(ctx, "tidy", snap); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the session file, got %d entries", len(entries))
	}
}
