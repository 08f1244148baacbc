package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunStore keeps the history of finished runs.
type RunStore interface {
	// Append records one finished run.
	Append(ctx context.Context, rec *domain.RunRecord) error

	// List returns the most recent records, newest first. limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get retrieves one record by ID.
	// Returns domain.ErrRunNotFound if no such record exists.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
}
