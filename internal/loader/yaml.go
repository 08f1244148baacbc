package loader

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/internal/dto"
)

// ParseYAML reads the structured YAML format:
//
//	states: [q0, q1]
//	input_alphabet: [a, b]
//	stack_alphabet: [Z, X]
//	initial_state: q0
//	initial_stack: Z
//	final_states: [q1]
//	transitions:
//	  - {from: q0, to: q1, read: a, pop: Z, push: [X, Z]}
func ParseYAML(data []byte) (*dto.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty definition document")
	}
	return dto.Decode(raw)
}

// ParseJSON reads the same document shape as JSON.
func ParseJSON(data []byte) (*dto.Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	return dto.Decode(raw)
}
