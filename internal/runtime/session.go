package runtime

import (
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
)

// Session is a manual walk through the configuration graph. Where Run
// explores every branch, a Session follows exactly one path chosen by the
// caller, with backtracking.
//
// A Session is not safe for concurrent use; wrap access in a session manager
// when sharing across goroutines or processes.
type Session struct {
	def     *domain.Definition
	mode    domain.AcceptanceMode
	input   []domain.Symbol
	current domain.Configuration
	history []domain.Configuration
	steps   domain.Trace
	source  string
}

// NewSession starts a session at the initial configuration for input.
func NewSession(def *domain.Definition, input []domain.Symbol, mode domain.AcceptanceMode) *Session {
	if mode == "" {
		mode = domain.AcceptFinalState
	}
	return &Session{
		def:     def,
		mode:    mode,
		input:   input,
		current: def.StartConfiguration(input),
	}
}

// Restore rebuilds a session from a persisted snapshot.
func Restore(snap *domain.Snapshot) (*Session, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if len(snap.Definition.States) == 0 {
		return nil, fmt.Errorf("snapshot %s carries no definition", snap.SessionID)
	}
	clone := snap.Clone()
	def := clone.Definition
	return &Session{
		def:     &def,
		mode:    clone.Mode,
		input:   clone.Input,
		current: clone.Current,
		history: clone.History,
		steps:   clone.Steps,
		source:  clone.Source,
	}, nil
}

// Snapshot exports the session for persistence. The caller owns the returned
// value; later session moves do not leak into it. The snapshot's Source is
// whatever Restore found; the SessionID stays with the store layer.
func (s *Session) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		Source:     s.source,
		Definition: *s.def,
		Mode:       s.mode,
		Input:      s.input,
		Current:    s.current,
		History:    s.history,
		Steps:      s.steps,
		UpdatedAt:  time.Now().UTC(),
	}
	return snap.Clone()
}

// Current returns the configuration the session sits at.
func (s *Session) Current() domain.Configuration { return s.current }

// Input returns the full original input.
func (s *Session) Input() []domain.Symbol { return s.input }

// Definition returns the automaton being walked.
func (s *Session) Definition() *domain.Definition { return s.def }

// Mode returns the acceptance mode verdicts default to.
func (s *Session) Mode() domain.AcceptanceMode { return s.mode }

// History returns the configurations stepped through before the current
// one, oldest first.
func (s *Session) History() []domain.Configuration {
	return append([]domain.Configuration(nil), s.history...)
}

// Steps returns the transitions fired so far.
func (s *Session) Steps() domain.Trace {
	return append(domain.Trace(nil), s.steps...)
}

// Applicable lists the transitions that can fire from the current
// configuration, in the same order the engine would explore them, each with
// a preview of the configuration it leads to.
func (s *Session) Applicable() []domain.Candidate {
	transitions := s.def.TransitionsFrom(s.current)
	candidates := make([]domain.Candidate, len(transitions))
	for i, t := range transitions {
		candidates[i] = domain.Candidate{
			Index:      i,
			Transition: t,
			Next:       t.Apply(s.current),
		}
	}
	return candidates
}

// Apply fires the candidate at index and moves the session forward. A bad
// index returns domain.ErrInvalidChoice and leaves the session untouched.
func (s *Session) Apply(index int) (domain.Configuration, error) {
	candidates := s.Applicable()
	if index < 0 || index >= len(candidates) {
		return s.current, fmt.Errorf("%w: index %d with %d applicable transitions",
			domain.ErrInvalidChoice, index, len(candidates))
	}
	chosen := candidates[index]
	s.history = append(s.history, s.current)
	s.steps = append(s.steps, domain.Step{
		Transition: chosen.Transition,
		From:       s.current,
		To:         chosen.Next,
	})
	s.current = chosen.Next
	return s.current, nil
}

// Back undoes the latest Apply. At the start configuration it returns
// domain.ErrInvalidChoice.
func (s *Session) Back() error {
	if len(s.history) == 0 {
		return fmt.Errorf("%w: already at the start configuration", domain.ErrInvalidChoice)
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.steps = s.steps[:len(s.steps)-1]
	return nil
}

// Verdict reports where the walk stands under the given mode (the session's
// own mode when empty): Accepted when the current configuration satisfies
// the acceptance predicate, Rejected when it does not and no transition can
// fire, Searching otherwise.
func (s *Session) Verdict(mode domain.AcceptanceMode) domain.Verdict {
	if mode == "" {
		mode = s.mode
	}
	if mode.Accepts(s.def, s.current) {
		return domain.VerdictAccepted
	}
	if len(s.def.TransitionsFrom(s.current)) == 0 {
		return domain.VerdictRejected
	}
	return domain.VerdictSearching
}
