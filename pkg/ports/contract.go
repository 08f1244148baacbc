package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
)

func contractSnapshot(sessionID string) *domain.Snapshot {
	def := domain.Definition{
		Name:               "contract",
		States:             []domain.State{"q0", "q1"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"q1"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q1", Input: "a", Pop: "Z", Push: []domain.Symbol{"Z"}},
		},
	}
	return &domain.Snapshot{
		SessionID:  sessionID,
		Source:     "contract.yaml",
		Definition: def,
		Mode:       domain.AcceptFinalState,
		Input:      domain.Symbols("a"),
		Current:    def.StartConfiguration(domain.Symbols("a")),
		UpdatedAt:  time.Now().UTC(),
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Current.State, loaded.Current.State)
		assert.Equal(t, snap.Input, loaded.Input)
		assert.Equal(t, snap.Mode, loaded.Mode)
		assert.Len(t, loaded.Definition.Transitions, len(snap.Definition.Transitions))
	})

	t.Run("Saved snapshots are isolated from the caller", func(t *testing.T) {
		snap := contractSnapshot(sessionID + "-iso")
		require.NoError(t, store.Save(ctx, snap.SessionID, snap))

		// Mutating the caller's copy must not leak into the store.
		snap.Current.State = "mutated"
		snap.Input[0] = "x"

		loaded, err := store.Load(ctx, snap.SessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.State("q0"), loaded.Current.State)
		assert.Equal(t, domain.Symbol("a"), loaded.Input[0])

		_ = store.Delete(ctx, snap.SessionID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractSnapshot(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot(id1))
		_ = store.Save(ctx, id2, contractSnapshot(id2))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunRunStoreContract verifies that a RunStore implementation adheres to the
// interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	stamp := time.Now().Format("20060102150405.000")

	record := func(i int) *domain.RunRecord {
		return &domain.RunRecord{
			ID:         fmt.Sprintf("contract-run-%s-%d", stamp, i),
			Definition: "contract",
			Input:      "aab",
			Mode:       domain.AcceptFinalState,
			Verdict:    domain.VerdictAccepted,
			Expanded:   3 + i,
			Elapsed:    5 * time.Millisecond,
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
	}

	t.Run("Append and Get", func(t *testing.T) {
		rec := record(0)
		require.NoError(t, store.Append(ctx, rec))

		got, err := store.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.Input, got.Input)
		assert.Equal(t, rec.Verdict, got.Verdict)
		assert.Equal(t, rec.Expanded, got.Expanded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "contract-run-missing-"+stamp)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List newest first", func(t *testing.T) {
		older, newer := record(1), record(2)
		require.NoError(t, store.Append(ctx, older))
		require.NoError(t, store.Append(ctx, newer))

		recs, err := store.List(ctx, 0)
		require.NoError(t, err)

		posOlder, posNewer := -1, -1
		for i, r := range recs {
			switch r.ID {
			case older.ID:
				posOlder = i
			case newer.ID:
				posNewer = i
			}
		}
		require.NotEqual(t, -1, posOlder, "older record should be listed")
		require.NotEqual(t, -1, posNewer, "newer record should be listed")
		assert.Less(t, posNewer, posOlder, "newer records come first")
	})

	t.Run("List respects limit", func(t *testing.T) {
		recs, err := store.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})
}

// RunLockerContract verifies that a Locker implementation adheres to the
// interface contract.
func RunLockerContract(t *testing.T, locker Locker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Lock excludes a second holder", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		second, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(second, key, 5*time.Second)
		assert.Error(t, err, "second Lock on the same key should not succeed while held")
	})

	t.Run("Reacquire after unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		again, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, again(ctx))
	})
}
