package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
)

// slowStore simulates IO latency to provoke races when locking is missing.
type slowStore struct {
	mu   sync.Mutex
	data map[string]*domain.Snapshot
}

func (s *slowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[sessionID] = snap
	return nil
}

func (s *slowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *slowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *slowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func walkSnapshot(sessionID string) *domain.Snapshot {
	def := domain.Definition{
		Name:               "loop",
		States:             []domain.State{"q0"},
		InputAlphabet:      []domain.Symbol{"a"},
		StackAlphabet:      []domain.Symbol{"Z"},
		InitialState:       "q0",
		InitialStackSymbol: "Z",
		FinalStates:        []domain.State{"q0"},
		Transitions: []domain.Transition{
			{From: "q0", To: "q0", Input: "a", Pop: domain.Epsilon},
		},
	}
	input := domain.Symbols("aa")
	return &domain.Snapshot{
		SessionID:  sessionID,
		Definition: def,
		Mode:       domain.AcceptFinalState,
		Input:      input,
		Current:    def.StartConfiguration(input),
	}
}

func TestManager_SerializesWrites(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, walkSnapshot(id)))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, manager.Save(ctx, id, walkSnapshot(id)))
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, snap.UpdatedAt.IsZero(), "Save should stamp UpdatedAt")
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	// Two routines racing to start the same session: exactly one snapshot
	// must win, the other sees it.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.LoadOrStart(ctx, id, walkSnapshot(id))
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.SessionID)
	assert.Equal(t, domain.State("q0"), snap.Current.State)
}

func TestManager_LoadOrStartWithoutFresh(t *testing.T) {
	manager := session.NewManager(&slowStore{})

	_, err := manager.LoadOrStart(context.Background(), "missing", nil)
	assert.Error(t, err)
}

func TestManager_Update(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "rmw"

	require.NoError(t, manager.Save(ctx, id, walkSnapshot(id)))

	snap, err := manager.Update(ctx, id, func(s *domain.Snapshot) error {
		s.Source = "modified"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "modified", snap.Source)

	reloaded, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "modified", reloaded.Source)
}

func TestManager_UpdateMissingSession(t *testing.T) {
	manager := session.NewManager(&slowStore{})

	_, err := manager.Update(context.Background(), "ghost", func(*domain.Snapshot) error {
		t.Fatal("fn must not run for a missing session")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
