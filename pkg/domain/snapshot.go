package domain

import "time"

// Snapshot is the persistable form of an interactive stepping session. It is
// self-contained: the full definition travels with it, so a session survives
// the source file changing underneath it.
type Snapshot struct {
	// SessionID identifies the session in a store.
	SessionID string `json:"session_id"`

	// Source hints where the definition was loaded from. Informational.
	Source string `json:"source,omitempty"`

	// Definition is the automaton the session walks.
	Definition Definition `json:"definition"`

	// Mode is the acceptance mode the session reports verdicts under.
	Mode AcceptanceMode `json:"mode"`

	// Input is the full original input.
	Input []Symbol `json:"input"`

	// Current is the configuration the session sits at.
	Current Configuration `json:"current"`

	// History holds the configurations walked through before Current,
	// oldest first. Backtracking pops from its end.
	History []Configuration `json:"history,omitempty"`

	// Steps records the transitions fired to get here, aligned with History.
	Steps Trace `json:"steps,omitempty"`

	// UpdatedAt is set by the session manager on every save.
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted form of a snapshot when a persistence
	// middleware sealed it. When set, every field other than SessionID and
	// UpdatedAt is zero.
	Sealed string `json:"sealed,omitempty"`
}

// Clone returns a deep copy. Stores keep clones so callers cannot mutate
// persisted snapshots through shared slices.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Definition.States = append([]State(nil), s.Definition.States...)
	out.Definition.InputAlphabet = append([]Symbol(nil), s.Definition.InputAlphabet...)
	out.Definition.StackAlphabet = append([]Symbol(nil), s.Definition.StackAlphabet...)
	out.Definition.FinalStates = append([]State(nil), s.Definition.FinalStates...)
	out.Definition.Transitions = append([]Transition(nil), s.Definition.Transitions...)
	out.Input = append([]Symbol(nil), s.Input...)
	out.Current = cloneConfiguration(s.Current)
	if s.History != nil {
		out.History = make([]Configuration, len(s.History))
		for i, c := range s.History {
			out.History[i] = cloneConfiguration(c)
		}
	}
	out.Steps = append(Trace(nil), s.Steps...)
	return &out
}

func cloneConfiguration(c Configuration) Configuration {
	return Configuration{
		State:     c.State,
		Remaining: append([]Symbol(nil), c.Remaining...),
		Stack:     c.Stack.Clone(),
	}
}
