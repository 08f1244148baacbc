package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Library defines how named automaton definitions are retrieved. It
// decouples the definition source (a directory of documents, a loam
// repository, memory) from the verbs that browse it.
type Library interface {
	// Get retrieves a definition by name.
	// Returns domain.ErrDefinitionNotFound if the library has no such entry.
	Get(ctx context.Context, name string) (*domain.Definition, error)

	// List returns the names of all definitions available, sorted.
	List(ctx context.Context) ([]string, error)
}
