package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines
// communication. Every step event is emitted as one JSON object per line;
// commands are read line by line from the input side.
//
// Commands follow the same protocol as the text handler: a menu number
// (one-based, as listed in the step event), "b", or "q". A command may be
// sent as a bare line or as a JSON string.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, event StepEvent) (bool, error) {
	frame := struct {
		Type string `json:"type"`
		StepEvent
	}{Type: "step", StepEvent: event}

	if err := h.Encoder.Encode(frame); err != nil {
		return false, err
	}
	return event.Verdict == domain.VerdictSearching, nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)

	// Unquote if the command was sent as a JSON string.
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}
	return text, nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{Type: "system", Message: msg})
}
