package schema

import "fmt"

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates scalar values that can stand in for a symbol or
// state name. YAML decodes bare digits and nulls in symbol position, so
// numbers, booleans and nil are accepted and stringified later.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	switch value.(type) {
	case string, int, int64, uint64, float64, bool, nil:
		return nil
	default:
		return fmt.Errorf("expected string, got %T", value)
	}
}

// SliceType validates homogeneous lists.
type SliceType struct {
	Elem Type
}

func (t *SliceType) Name() string { return "[" + t.Elem.Name() + "]" }

func (t *SliceType) Validate(value any) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected list of %s, got %T", t.Elem.Name(), value)
	}
	for i, item := range items {
		if err := t.Elem.Validate(item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

// MapType validates string-keyed objects without constraining their fields.
type MapType struct{}

func (t *MapType) Name() string { return "map" }

func (t *MapType) Validate(value any) error {
	switch value.(type) {
	case map[string]any, map[any]any:
		return nil
	default:
		return fmt.Errorf("expected map, got %T", value)
	}
}

// AnyOfType validates against the first alternative that matches.
type AnyOfType struct {
	Alternatives []Type
}

func (t *AnyOfType) Name() string {
	name := ""
	for i, alt := range t.Alternatives {
		if i > 0 {
			name += "|"
		}
		name += alt.Name()
	}
	return name
}

func (t *AnyOfType) Validate(value any) error {
	for _, alt := range t.Alternatives {
		if alt.Validate(value) == nil {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %T", t.Name(), value)
}

// OptionalType marks a field that may be absent. Validate only runs when
// the field is present.
type OptionalType struct {
	Elem Type
}

func (t *OptionalType) Name() string { return t.Elem.Name() + "?" }

func (t *OptionalType) Validate(value any) error { return t.Elem.Validate(value) }

// --- Constructors ---

// String returns a scalar type.
func String() Type { return &StringType{} }

// Slice returns a list type with the given element type.
func Slice(elem Type) Type { return &SliceType{Elem: elem} }

// Map returns an open object type.
func Map() Type { return &MapType{} }

// AnyOf returns a union type matching any alternative.
func AnyOf(alts ...Type) Type { return &AnyOfType{Alternatives: alts} }

// Optional marks a field as allowed to be absent.
func Optional(elem Type) Type { return &OptionalType{Elem: elem} }
