package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func secretSnapshot(sessionID string) *domain.Snapshot {
	def := domain.Definition{
		Name:               "secret-machine",
		States:             []domain.State{"q0"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
	}
	input := domain.Symbols("aaa")
	return &domain.Snapshot{
		SessionID:  sessionID,
		Source:     "secret.yaml",
		Definition: def,
		Mode:       domain.AcceptFinalState,
		Input:      input,
		Current:    def.StartConfiguration(input),
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(underlying)

	ctx := context.Background()
	sessionID := "test-session"

	if err := secureStore.Save(ctx, sessionID, secretSnapshot(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store must hold only the sealed envelope.
	stored, err := underlying.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("underlying load failed: %v", err)
	}
	if stored.Sealed == "" {
		t.Fatal("expected a sealed envelope in the underlying store")
	}
	if stored.Definition.Name != "" || len(stored.Input) != 0 {
		t.Fatalf("envelope leaks plaintext: definition=%q input=%v", stored.Definition.Name, stored.Input)
	}

	// Load via the middleware decrypts.
	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Definition.Name != "secret-machine" {
		t.Errorf("definition name = %q, want secret-machine", loaded.Definition.Name)
	}
	if got := domain.JoinSymbols(loaded.Input); got != "aaa" {
		t.Errorf("input = %q, want aaa", got)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)

	ctx := context.Background()
	sessionID := "rotation-session"

	if err := secureOld.Save(ctx, sessionID, secretSnapshot(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// New active key with the old one as fallback still reads old data.
	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}

	// Re-saving re-encrypts under the new key; the old middleware without
	// the new key as fallback can no longer read it.
	if err := secureNew.Save(ctx, sessionID, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureOld.Load(ctx, sessionID); err == nil {
		t.Error("expected failure loading new-key data with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlaintextSnapshots(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	// Simulates a store written before encryption was enabled.
	if err := underlying.Save(ctx, "legacy", secretSnapshot("legacy")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	if _, err := secureStore.Load(ctx, "legacy"); err == nil {
		t.Error("expected an error for a snapshot without an envelope")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestChainOrdersMiddleware(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)

	chained := middleware.Chain(underlying,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	ctx := context.Background()
	if err := chained.Save(ctx, "chained", secretSnapshot("chained")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlying.Load(ctx, "chained")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Sealed == "" {
		t.Error("Chain should have applied the encryption layer")
	}
}
