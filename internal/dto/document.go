// Package dto holds the format-agnostic document every definition loader
// parses into, and the normalization that turns a document into a validated
// domain.Definition. Formats differ in syntax only; semantics live here.
package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/espalier/pkg/schema"
)

// Document is the raw shape of an automaton definition, before
// normalization. Field tags match the frontmatter/YAML/JSON keys. The json
// tags matter beyond serialization: loam's typed repository binds
// frontmatter through encoding/json, so without them the multi-word keys
// would silently never reach the struct.
type Document struct {
	Name          string          `json:"name" mapstructure:"name"`
	Description   string          `json:"description" mapstructure:"description"`
	States        []string        `json:"states" mapstructure:"states"`
	InputAlphabet []string        `json:"input_alphabet" mapstructure:"input_alphabet"`
	StackAlphabet []string        `json:"stack_alphabet" mapstructure:"stack_alphabet"`
	InitialState  string          `json:"initial_state" mapstructure:"initial_state"`
	InitialStack  any             `json:"initial_stack" mapstructure:"initial_stack"` // scalar or one-element list
	FinalStates   []string        `json:"final_states" mapstructure:"final_states"`
	Transitions   []TransitionDoc `json:"transitions" mapstructure:"transitions"`
}

// TransitionDoc is one transition row. Read and pop default to ε when the
// keys are absent. Push accepts a list of symbols or the compact string
// form ("XZ" pushes X then Z).
type TransitionDoc struct {
	From string `json:"from" mapstructure:"from"`
	To   string `json:"to" mapstructure:"to"`
	Read string `json:"read" mapstructure:"read"`
	Pop  string `json:"pop" mapstructure:"pop"`
	Push any    `json:"push" mapstructure:"push"`
}

// DocumentSchema describes the raw document for pre-decode validation, so a
// malformed file reports every problem at once instead of failing on the
// first bad field.
var DocumentSchema = schema.Schema{
	"name":           schema.Optional(schema.String()),
	"description":    schema.Optional(schema.String()),
	"states":         schema.Slice(schema.String()),
	"input_alphabet": schema.Slice(schema.String()),
	"stack_alphabet": schema.Slice(schema.String()),
	"initial_state":  schema.String(),
	"initial_stack":  schema.AnyOf(schema.String(), schema.Slice(schema.String())),
	"final_states":   schema.Optional(schema.Slice(schema.String())),
	"transitions":    schema.Optional(schema.Slice(schema.Map())),
}

// Decode validates a raw document map and binds it onto a Document. Weak
// typing keeps YAML's bare scalars usable as symbols ("0" states, numeric
// symbols).
func Decode(raw map[string]any) (*Document, error) {
	if err := schema.Validate(DocumentSchema, raw); err != nil {
		return nil, err
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building document decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}
