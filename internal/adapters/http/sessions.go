package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/session"
)

// sessionView is what every session route answers with: where the walk
// stands plus the moves applicable from there. Indexes in Candidates are
// what POST {id}/apply expects back.
type sessionView struct {
	ID         string                `json:"id"`
	Definition string                `json:"definition"`
	Source     string                `json:"source,omitempty"`
	Mode       domain.AcceptanceMode `json:"mode"`
	Input      string                `json:"input"`
	Current    domain.Configuration  `json:"current"`
	Moves      int                   `json:"moves"`
	Verdict    domain.Verdict        `json:"verdict"`
	Candidates []domain.Candidate    `json:"candidates,omitempty"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func viewOf(snap *domain.Snapshot) (sessionView, error) {
	sess, err := runtime.Restore(snap)
	if err != nil {
		return sessionView{}, err
	}
	return sessionView{
		ID:         snap.SessionID,
		Definition: snap.Definition.Name,
		Source:     snap.Source,
		Mode:       snap.Mode,
		Input:      domain.JoinSymbols(snap.Input),
		Current:    snap.Current,
		Moves:      len(snap.History),
		Verdict:    sess.Verdict(""),
		Candidates: sess.Applicable(),
		UpdatedAt:  snap.UpdatedAt,
	}, nil
}

// sessionManager guards the session routes; it answers 503 and returns nil
// when no store was configured.
func (s *Server) sessionManager(w http.ResponseWriter) *session.Manager {
	if s.Sessions == nil {
		http.Error(w, "Sessions are not configured on this server", http.StatusServiceUnavailable)
		return nil
	}
	return s.Sessions
}

func (s *Server) sessionError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, fmt.Sprintf("No session %q", id), http.StatusNotFound)
		return
	}
	http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
	s.Logger.Error("session store error", "session_id", id, "error", err)
}

func (s *Server) respondView(w http.ResponseWriter, status int, snap *domain.Snapshot) {
	view, err := viewOf(snap)
	if err != nil {
		http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("session restore failed", "session_id", snap.SessionID, "error", err)
		return
	}
	s.respond(w, status, view)
}

type sessionCreateRequest struct {
	definitionRef
	Input string `json:"input"`
	Mode  string `json:"mode,omitempty"`
}

// handleSessionCreate answers POST /v1/sessions: it parks a fresh walk in
// the store and reports the start configuration.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	m := s.sessionManager(w)
	if m == nil {
		return
	}

	var body sessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("sessions: invalid request body", "error", err)
		return
	}

	input, err := runner.SanitizeInput(body.Input)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("sessions: input rejected", "error", err, "size", len(body.Input))
		return
	}

	def, source, err := s.resolve(r.Context(), body.definitionRef)
	if err != nil {
		s.definitionError(w, "sessions", err)
		return
	}

	mode := s.Mode
	if body.Mode != "" {
		mode, err = domain.ParseAcceptanceMode(body.Mode)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid mode: %v", err), http.StatusBadRequest)
			return
		}
	}

	snap := runtime.NewSession(def, domain.Symbols(input), mode).Snapshot()
	snap.Source = source

	id := uuid.NewString()
	stored, err := m.LoadOrStart(r.Context(), id, snap)
	if err != nil {
		http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("session create failed", "error", err)
		return
	}

	s.Metrics.SessionOpened()
	s.Logger.Info("session created", "session_id", id, "definition", def.Name)
	s.respondView(w, http.StatusCreated, stored)
}

// handleSessionGet answers GET /v1/sessions/{id}.
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	m := s.sessionManager(w)
	if m == nil {
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := m.Load(r.Context(), id)
	if err != nil {
		s.sessionError(w, id, err)
		return
	}
	s.respondView(w, http.StatusOK, snap)
}

type applyRequest struct {
	// Index picks from the candidate list of the current view. Indexes are
	// zero-based, matching the index field of each candidate.
	Index int `json:"index"`
}

// handleSessionApply answers POST /v1/sessions/{id}/apply: one move forward.
func (s *Server) handleSessionApply(w http.ResponseWriter, r *http.Request) {
	m := s.sessionManager(w)
	if m == nil {
		return
	}

	var body applyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("sessions: invalid request body", "error", err)
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := s.moveSession(r, m, id, func(sess *runtime.Session) error {
		_, err := sess.Apply(body.Index)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			http.Error(w, fmt.Sprintf("Invalid move: %v", err), http.StatusBadRequest)
			return
		}
		s.sessionError(w, id, err)
		return
	}

	s.Logger.Debug("session advanced", "session_id", id, "index", body.Index)
	s.respondView(w, http.StatusOK, snap)
}

// handleSessionBack answers POST /v1/sessions/{id}/back: undo the last move.
func (s *Server) handleSessionBack(w http.ResponseWriter, r *http.Request) {
	m := s.sessionManager(w)
	if m == nil {
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := s.moveSession(r, m, id, func(sess *runtime.Session) error {
		return sess.Back()
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			http.Error(w, fmt.Sprintf("Invalid move: %v", err), http.StatusBadRequest)
			return
		}
		s.sessionError(w, id, err)
		return
	}

	s.Logger.Debug("session backtracked", "session_id", id)
	s.respondView(w, http.StatusOK, snap)
}

// moveSession loads, mutates and saves a session under its lock. The stored
// SessionID and Source survive the round trip through the runtime session.
func (s *Server) moveSession(r *http.Request, m *session.Manager, id string, move func(*runtime.Session) error) (*domain.Snapshot, error) {
	return m.Update(r.Context(), id, func(snap *domain.Snapshot) error {
		sess, err := runtime.Restore(snap)
		if err != nil {
			return err
		}
		if err := move(sess); err != nil {
			return err
		}
		next := sess.Snapshot()
		next.SessionID = snap.SessionID
		next.Source = snap.Source
		*snap = *next
		return nil
	})
}

// handleSessionDelete answers DELETE /v1/sessions/{id}. The load settles
// whether the session exists; stores delete silently.
func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	m := s.sessionManager(w)
	if m == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := m.Load(r.Context(), id); err != nil {
		s.sessionError(w, id, err)
		return
	}
	if err := m.Delete(r.Context(), id); err != nil {
		s.sessionError(w, id, err)
		return
	}

	s.Metrics.SessionClosed()
	s.Logger.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}
