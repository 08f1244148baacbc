package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

type noopStore struct{}

func (noopStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	return nil
}
func (noopStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return nil, nil
}
func (noopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (noopStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

// Lock entries must not outlive their sessions, or a long-running server
// leaks one mutex per session ever touched.
func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(noopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, &domain.Snapshot{})
		_ = mgr.Delete(ctx, sid)
	}

	if got := len(mgr.locks); got != 0 {
		t.Errorf("%d lock entries remain in memory after Delete", got)
	}
}
