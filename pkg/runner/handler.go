package runner

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// StepEvent is one frame of an interactive walk: where the machine stands,
// the moves it offers, and the verdict so far.
type StepEvent struct {
	// Configuration is the current control state, unread input and stack.
	Configuration domain.Configuration `json:"configuration"`

	// Candidates are the transitions that can fire here, in engine order.
	// Empty once the walk is stuck.
	Candidates []domain.Candidate `json:"candidates,omitempty"`

	// Verdict is Searching while moves remain, otherwise the settled outcome.
	Verdict domain.Verdict `json:"verdict"`

	// Moves counts the transitions fired so far.
	Moves int `json:"moves"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the step to the user.
	// Returns true if the handler expects to read input after this, which
	// is the case while the walk has not settled.
	Output(ctx context.Context, event StepEvent) (bool, error)

	// Input reads a command from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (hints, warnings).
	// This is distinct from step rendering.
	SystemOutput(ctx context.Context, msg string) error
}
