package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Library implements ports.Library over definitions registered at runtime.
// Definitions are treated as immutable once registered.
type Library struct {
	mu   sync.RWMutex
	defs map[string]*domain.Definition
}

// NewLibrary creates an empty in-memory library.
func NewLibrary() *Library {
	return &Library{
		defs: make(map[string]*domain.Definition),
	}
}

// Register adds a definition under its own name. Re-registering a name
// replaces the previous entry.
func (l *Library) Register(def *domain.Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("definition must carry a name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[def.Name] = def
	return nil
}

// Get retrieves a definition by name.
func (l *Library) Get(ctx context.Context, name string) (*domain.Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrDefinitionNotFound)
	}
	return def, nil
}

// List returns the registered names, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
