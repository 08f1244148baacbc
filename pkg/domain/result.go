package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Verdict is the outcome of a simulation, or of an interactive session asked
// where it stands.
type Verdict int

const (
	// VerdictSearching means nothing is decided yet. Engine runs never end
	// here; interactive sessions report it mid-walk.
	VerdictSearching Verdict = iota

	// VerdictAccepted means an accepting configuration was reached.
	VerdictAccepted

	// VerdictRejected means the whole reachable configuration space was
	// explored without finding an accepting configuration.
	VerdictRejected

	// VerdictInconclusive means the search was cut off (step limit) before
	// either answer was established.
	VerdictInconclusive
)

var verdictNames = map[Verdict]string{
	VerdictSearching:    "searching",
	VerdictAccepted:     "accepted",
	VerdictRejected:     "rejected",
	VerdictInconclusive: "inconclusive",
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// MarshalJSON encodes the verdict as its lowercase name.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a lowercase verdict name.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseVerdict(name)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVerdict resolves a lowercase verdict name.
func ParseVerdict(name string) (Verdict, error) {
	for candidate, n := range verdictNames {
		if n == name {
			return candidate, nil
		}
	}
	return VerdictSearching, fmt.Errorf("unknown verdict %q", name)
}

// Reasons attached to non-accepting results.
const (
	ReasonExhausted = "no accepting configuration reachable"
	ReasonStepLimit = "step limit exceeded"
)

// Result is the outcome of one engine run.
type Result struct {
	// Verdict is Accepted, Rejected or Inconclusive.
	Verdict Verdict `json:"verdict"`

	// Reason explains non-accepting verdicts. Empty on acceptance.
	Reason string `json:"reason,omitempty"`

	// Final is the configuration the verdict was decided on: the accepting
	// configuration, or the last one expanded.
	Final Configuration `json:"final"`

	// Trace is the accepting path, start configuration first. Empty unless
	// accepted.
	Trace Trace `json:"trace,omitempty"`

	// Expanded counts configurations dequeued and expanded during the search.
	Expanded int `json:"expanded"`

	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration `json:"elapsed"`
}

// Accepted reports whether the run accepted the input.
func (r *Result) Accepted() bool { return r.Verdict == VerdictAccepted }
