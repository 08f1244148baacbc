package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/espalier/internal/dto"
)

// ParseFunc turns raw file bytes into a definition document.
type ParseFunc func(data []byte) (*dto.Document, error)

// Format describes one definition file format.
type Format struct {
	// Name is the format's canonical name ("yaml", "ascii").
	Name string

	// Extensions lists the file extensions the format claims, with the dot.
	Extensions []string

	// Parse reads a file of this format.
	Parse ParseFunc
}

// Registry maps format names and file extensions to parsers.
// The zero value is unusable; use NewRegistry or the package-level Default.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Format
	byExt  map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Format),
		byExt:  make(map[string]Format),
	}
}

// Register adds a format. A format with the same name or claiming an already
// registered extension is overwritten.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[f.Name] = f
	for _, ext := range f.Extensions {
		r.byExt[strings.ToLower(ext)] = f
	}
}

// ByName looks a format up by canonical name.
func (r *Registry) ByName(name string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("unknown definition format %q (known: %s)", name, strings.Join(r.names(), ", "))
	}
	return f, nil
}

// ByExtension looks a format up by file extension (with the dot).
func (r *Registry) ByExtension(ext string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return Format{}, fmt.Errorf("unrecognized definition extension %q (use %s)", ext, strings.Join(r.extensions(), ", "))
	}
	return f, nil
}

// Names lists the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
