package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// SessionStore defines the interface for persisting interactive sessions.
// This allows durable stepping, enabling "stop & resume" workflows.
type SessionStore interface {
	// Save persists the snapshot under the given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID. Deleting an
	// unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
