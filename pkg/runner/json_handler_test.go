package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

func TestJSONHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewJSONHandler(nil, outBuf)

	needsInput, err := handler.Output(context.Background(), sampleEvent(domain.VerdictSearching))
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !needsInput {
		t.Error("Expected needsInput while searching")
	}

	var frame map[string]any
	if err := json.Unmarshal(outBuf.Bytes(), &frame); err != nil {
		t.Fatalf("Output is not one JSON object per line: %v", err)
	}
	if frame["type"] != "step" {
		t.Errorf("Expected type 'step', got %v", frame["type"])
	}
	if frame["verdict"] != "searching" {
		t.Errorf("Expected verdict 'searching', got %v", frame["verdict"])
	}
	if _, ok := frame["candidates"]; !ok {
		t.Error("Expected candidates in the frame")
	}
}

func TestJSONHandler_OutputSettled(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewJSONHandler(nil, outBuf)

	needsInput, err := handler.Output(context.Background(), sampleEvent(domain.VerdictAccepted))
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if needsInput {
		t.Error("Expected no input request once the walk settled")
	}
	if !strings.Contains(outBuf.String(), `"verdict":"accepted"`) {
		t.Errorf("Expected accepted verdict in frame, got %s", outBuf.String())
	}
}

func TestJSONHandler_Input(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"JSON String", "\"3\"\n", "3"},
		{"Raw Line", "b\n", "b"},
		{"Whitespace", "  q  \n", "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewJSONHandler(bytes.NewBufferString(tt.raw), &bytes.Buffer{})
			got, err := handler.Input(context.Background())
			if err != nil {
				t.Fatalf("Input failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewJSONHandler(nil, outBuf)

	if err := handler.SystemOutput(context.Background(), "no such transition"); err != nil {
		t.Fatalf("SystemOutput failed: %v", err)
	}

	var frame map[string]any
	if err := json.Unmarshal(outBuf.Bytes(), &frame); err != nil {
		t.Fatalf("SystemOutput is not JSON: %v", err)
	}
	if frame["type"] != "system" || frame["message"] != "no such transition" {
		t.Errorf("Unexpected frame: %v", frame)
	}
}
