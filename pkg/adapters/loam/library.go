// Package loam serves automaton definitions from a loam document repository,
// turning a directory of frontmatter files into a named library.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/espalier/internal/dto"
	"github.com/aretw0/espalier/pkg/domain"
)

// Library adapts a loam repository to the ports.Library interface. Every
// document is one definition; the document ID (file name without extension)
// is the definition's library name.
type Library struct {
	Repo *loam.TypedRepository[dto.Document]
}

// New creates a library over an existing typed repository.
func New(repo *loam.TypedRepository[dto.Document]) *Library {
	return &Library{Repo: repo}
}

// Open initializes a loam repository rooted at dir and wraps it as a library.
func Open(dir string) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter unambiguous. The library never
	// writes, and read-only mode avoids loam's sandbox behavior in dev mode.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[dto.Document](repo)), nil
}

// Get loads, normalizes and validates the named definition. The document
// body doubles as the description when the frontmatter has none.
func (l *Library) Get(ctx context.Context, name string) (*domain.Definition, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrDefinitionNotFound)
	}

	d := doc.Data
	if d.Name == "" {
		d.Name = trimExtension(doc.ID)
	}
	if d.Description == "" {
		d.Description = strings.TrimSpace(doc.Content)
	}

	def, err := d.Definition()
	if err != nil {
		return nil, domain.NewDefinitionError(sourceFile(doc.ID), err)
	}
	return def, nil
}

// sourceFile names the markdown file behind a document ID, so definition
// errors point at something the user can open. Loam hands back the ID
// without its extension.
func sourceFile(id string) string {
	if filepath.Ext(id) == "" {
		return id + ".md"
	}
	return id
}

// List returns the names of every definition in the repository, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, trimExtension(doc.ID))
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
