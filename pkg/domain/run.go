package domain

import "time"

// NewRunRecord captures a finished simulation for history. The ID is left
// empty for the store to assign.
func NewRunRecord(definition, source, input string, mode AcceptanceMode, res *Result) *RunRecord {
	return &RunRecord{
		Definition: definition,
		Source:     source,
		Input:      input,
		Mode:       mode,
		Verdict:    res.Verdict,
		Reason:     res.Reason,
		Expanded:   res.Expanded,
		Elapsed:    res.Elapsed,
		CreatedAt:  time.Now().UTC(),
	}
}

// RunRecord is one finished simulation as kept in run history.
type RunRecord struct {
	ID         string         `json:"id"`
	Definition string         `json:"definition"`
	Source     string         `json:"source,omitempty"`
	Input      string         `json:"input"`
	Mode       AcceptanceMode `json:"mode"`
	Verdict    Verdict        `json:"verdict"`
	Reason     string         `json:"reason,omitempty"`
	Expanded   int            `json:"expanded"`
	Elapsed    time.Duration  `json:"elapsed"`
	CreatedAt  time.Time      `json:"created_at"`
}
