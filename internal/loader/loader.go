// Package loader reads automaton definitions from files. The format is
// picked from the file extension; every format parses into the same
// dto.Document, so normalization and validation behave identically no
// matter how a definition was written.
//
// Anything wrong with a definition surfaces here as a domain.DefinitionError
// carrying every violation. The engine never re-reads files: a Definition
// that made it past Load is the single source of truth for a run.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/internal/dto"
	"github.com/aretw0/espalier/pkg/domain"
)

// Default is the process-wide format registry. All built-in formats are
// registered at package load.
var Default = NewRegistry()

func init() {
	Default.Register(Format{Name: "yaml", Extensions: []string{".yaml", ".yml"}, Parse: ParseYAML})
	Default.Register(Format{Name: "json", Extensions: []string{".json"}, Parse: ParseJSON})
	Default.Register(Format{Name: "ascii", Extensions: []string{".txt", ".pda", ".ascii"}, Parse: ParseASCII})
	Default.Register(Format{Name: "csv", Extensions: []string{".csv"}, Parse: ParseCSV})
	Default.Register(Format{Name: "hcl", Extensions: []string{".hcl"}, Parse: ParseHCL})
	Default.Register(Format{Name: "markdown", Extensions: []string{".md", ".markdown"}, Parse: ParseMarkdown})
}

// Load reads a definition file, picking the format from its extension.
func Load(path string) (*domain.Definition, error) {
	format, err := Default.ByExtension(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewDefinitionError(path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}

	def, err := parse(format, data, path)
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		base := filepath.Base(path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// LoadBytes parses raw bytes under an explicitly named format.
func LoadBytes(data []byte, formatName, source string) (*domain.Definition, error) {
	format, err := Default.ByName(formatName)
	if err != nil {
		return nil, domain.NewDefinitionError(source, err)
	}
	return parse(format, data, source)
}

// FromMap normalizes an already decoded document map (inline definitions on
// the HTTP and MCP surfaces).
func FromMap(raw map[string]any, source string) (*domain.Definition, error) {
	doc, err := dto.Decode(raw)
	if err != nil {
		return nil, domain.NewDefinitionError(source, err)
	}
	return FromDocument(doc, source)
}

// FromDocument normalizes and validates a parsed document.
func FromDocument(doc *dto.Document, source string) (*domain.Definition, error) {
	def, err := doc.Definition()
	if err != nil {
		return nil, domain.NewDefinitionError(source, err)
	}
	return def, nil
}

func parse(format Format, data []byte, source string) (*domain.Definition, error) {
	doc, err := format.Parse(data)
	if err != nil {
		return nil, domain.NewDefinitionError(source, err)
	}
	return FromDocument(doc, source)
}
