// Package http serves the simulator over a JSON API.
//
// Every request is self-contained: bodies carry either a full inline
// definition document or the name of a library entry, so the server holds no
// automaton state of its own. Interactive sessions are the exception; they
// live in the configured session store and survive across requests.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/diagram"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/schema"
	"github.com/aretw0/espalier/pkg/session"
)

// DefaultMaxSteps bounds searches when the server is configured without a
// limit. Machines with ε-transitions that grow the stack have infinite
// configuration graphs, so the API never runs unbounded.
const DefaultMaxSteps = 1000

// Server carries the dependencies of the HTTP API. Fields left zero degrade
// gracefully: without a Library only inline definitions resolve, without
// Sessions the session routes answer 503, without Runs nothing is recorded.
type Server struct {
	Library  ports.Library
	Sessions *session.Manager
	Runs     ports.RunStore
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	// MaxSteps bounds every search started through the API unless the
	// request asks for less.
	MaxSteps int

	// Mode is the acceptance mode used when a request does not name one.
	Mode domain.AcceptanceMode
}

// NewHandler builds the API router around the server, filling in defaults
// for anything unset.
func NewHandler(s *Server) http.Handler {
	if s == nil {
		s = &Server{}
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.Metrics == nil {
		s.Metrics = observability.NewMetrics()
	}
	if s.Mode == "" {
		s.Mode = domain.AcceptFinalState
	}
	if s.MaxSteps <= 0 {
		s.MaxSteps = DefaultMaxSteps
	}

	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/run", s.handleRun)
		r.Post("/validate", s.handleValidate)
		r.Post("/diagram", s.handleDiagram)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleSessionCreate)
			r.Get("/{id}", s.handleSessionGet)
			r.Post("/{id}/apply", s.handleSessionApply)
			r.Post("/{id}/back", s.handleSessionBack)
			r.Delete("/{id}", s.handleSessionDelete)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// definitionRef is how request bodies name an automaton: a full inline
// document, or the name of a library entry. Exactly one must be set.
type definitionRef struct {
	Definition map[string]any `json:"definition,omitempty"`
	Library    string         `json:"library,omitempty"`
}

// resolve turns a definitionRef into a validated definition plus a source
// hint for traces and history.
func (s *Server) resolve(ctx context.Context, ref definitionRef) (*domain.Definition, string, error) {
	switch {
	case len(ref.Definition) > 0 && ref.Library != "":
		return nil, "", errors.New("definition and library are mutually exclusive")
	case len(ref.Definition) > 0:
		def, err := loader.FromMap(ref.Definition, "inline")
		return def, "inline", err
	case ref.Library != "":
		if s.Library == nil {
			return nil, "", errors.New("no library configured on this server")
		}
		def, err := s.Library.Get(ctx, ref.Library)
		return def, "library:" + ref.Library, err
	default:
		return nil, "", errors.New("a definition or a library name is required")
	}
}

func (s *Server) definitionError(w http.ResponseWriter, op string, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, domain.ErrDefinitionNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, fmt.Sprintf("Invalid definition: %v", err), status)
	s.Logger.Warn(op+": definition rejected", "error", err)
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

type runRequest struct {
	definitionRef
	Input    string `json:"input"`
	Mode     string `json:"mode,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

type runResponse struct {
	Definition string                `json:"definition"`
	Input      string                `json:"input"`
	Mode       domain.AcceptanceMode `json:"mode"`
	Result     *domain.Result        `json:"result"`
}

// handleRun answers POST /v1/run: one exhaustive simulation.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("run: invalid request body", "error", err)
		return
	}

	input, err := runner.SanitizeInput(body.Input)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("run: input rejected", "error", err, "size", len(body.Input))
		return
	}

	def, source, err := s.resolve(r.Context(), body.definitionRef)
	if err != nil {
		s.definitionError(w, "run", err)
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

	limit := s.MaxSteps
	if body.MaxSteps > 0 && body.MaxSteps < limit {
		limit = body.MaxSteps
	}

	eng := runtime.NewEngine(def,
		runtime.WithLogger(s.Logger),
		runtime.WithAcceptanceMode(mode),
		runtime.WithStepLimit(limit),
		runtime.WithHooks(s.Metrics.Hooks()),
	)
	res, err := eng.Run(r.Context(), domain.Symbols(input))
	if err != nil {
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("run failed", "error", err)
		return
	}

	s.recordRun(r.Context(), def, source, input, mode, res)

	s.respond(w, http.StatusOK, runResponse{
		Definition: def.Name,
		Input:      input,
		Mode:       mode,
		Result:     res,
	})
}

// recordRun appends the finished run to history. Failures are logged, not
// surfaced; the verdict already went out.
func (s *Server) recordRun(ctx context.Context, def *domain.Definition, source, input string, mode domain.AcceptanceMode, res *domain.Result) {
	if s.Runs == nil {
		return
	}
	rec := domain.NewRunRecord(def.Name, source, input, mode, res)
	if err := s.Runs.Append(ctx, rec); err != nil {
		s.Logger.Warn("run not recorded", "error", err)
	}
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleValidate answers POST /v1/validate. A definition that parsed but
// failed validation is this endpoint's payload, not an HTTP error.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body definitionRef
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("validate: invalid request body", "error", err)
		return
	}

	def, _, err := s.resolve(r.Context(), body)
	if err != nil {
		var defErr *domain.DefinitionError
		if errors.As(err, &defErr) {
			s.respond(w, http.StatusOK, validateResponse{
				Valid:  false,
				Errors: schema.Messages(defErr.Err),
			})
			return
		}
		s.definitionError(w, "validate", err)
		return
	}

	s.respond(w, http.StatusOK, validateResponse{
		Valid:    true,
		Warnings: validator.Warnings(def),
	})
}

type diagramRequest struct {
	definitionRef
	Format string `json:"format,omitempty"`
}

type diagramResponse struct {
	Definition string `json:"definition"`
	Format     string `json:"format"`
	Diagram    string `json:"diagram"`
}

// handleDiagram answers POST /v1/diagram with a rendered state diagram.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	var body diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("diagram: invalid request body", "error", err)
		return
	}

	def, _, err := s.resolve(r.Context(), body.definitionRef)
	if err != nil {
		s.definitionError(w, "diagram", err)
		return
	}

	format := body.Format
	if format == "" {
		format = "mermaid"
	}

	var rendered string
	switch format {
	case "mermaid":
		rendered = diagram.Mermaid(def, nil)
	case "unicode":
		rendered = diagram.Unicode(def)
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q (want mermaid or unicode)", format), http.StatusBadRequest)
		return
	}

	s.respond(w, http.StatusOK, diagramResponse{
		Definition: def.Name,
		Format:     format,
		Diagram:    rendered,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
