// Package mcp exposes the simulator as a Model Context Protocol server, so
// AI agents can run words, validate definitions and browse the library as
// tools and resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/diagram"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/schema"
)

// defaultStepLimit bounds tool-started searches when the host configures no
// limit; agents should not be able to start unbounded searches.
const defaultStepLimit = 1000

// RunOutcome is the structured result of the run_input tool.
type RunOutcome struct {
	Definition string   `json:"definition" jsonschema_description:"Name of the automaton that ran"`
	Input      string   `json:"input" jsonschema_description:"The input word after sanitization"`
	Mode       string   `json:"mode" jsonschema_description:"Acceptance mode the verdict was decided under"`
	Verdict    string   `json:"verdict" jsonschema_description:"accepted, rejected or inconclusive"`
	Reason     string   `json:"reason,omitempty" jsonschema_description:"Why the run did not accept"`
	Expanded   int      `json:"expanded" jsonschema_description:"Configurations expanded during the search"`
	Trace      []string `json:"trace,omitempty" jsonschema_description:"The accepting path, one fired transition per line"`
}

// ValidationOutcome is the structured result of the validate_definition tool.
type ValidationOutcome struct {
	Valid    bool     `json:"valid" jsonschema_description:"Whether the definition is well-formed"`
	Errors   []string `json:"errors,omitempty" jsonschema_description:"Violations that make the definition unusable"`
	Warnings []string `json:"warnings,omitempty" jsonschema_description:"Advisory findings, e.g. unreachable states"`
}

// DiagramOutcome is the structured result of the render_diagram tool.
type DiagramOutcome struct {
	Definition string `json:"definition" jsonschema_description:"Name of the automaton drawn"`
	Format     string `json:"format" jsonschema_description:"mermaid or unicode"`
	Diagram    string `json:"diagram" jsonschema_description:"The rendered diagram"`
}

// Server wraps the engine and library behind an MCP server.
type Server struct {
	library   ports.Library
	logger    *slog.Logger
	mode      domain.AcceptanceMode
	stepLimit int
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Logs must go to stderr on the stdio transport.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAcceptanceMode sets the mode used when a tool call names none.
func WithAcceptanceMode(mode domain.AcceptanceMode) Option {
	return func(s *Server) {
		if mode != "" {
			s.mode = mode
		}
	}
}

// WithStepLimit caps the search budget of tool-started runs.
func WithStepLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.stepLimit = limit
		}
	}
}

// NewServer builds the MCP surface over the given library. A nil library is
// allowed; tools then accept only inline definitions.
func NewServer(library ports.Library, opts ...Option) *Server {
	s := &Server{
		library:   library,
		logger:    logging.NewNop(),
		mode:      domain.AcceptFinalState,
		stepLimit: defaultStepLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version))
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_input
	runTool := mcp.NewTool("run_input",
		mcp.WithDescription("Run an input word through a pushdown automaton and report the verdict, with the accepting trace when one exists."),
		mcp.WithString("library", mcp.Description("Name of a library definition (mutually exclusive with definition)")),
		mcp.WithString("definition", mcp.Description("Inline definition document as a JSON string (mutually exclusive with library)")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input word, tokenized one symbol per character")),
		mcp.WithString("mode", mcp.Description("Acceptance mode: final_state (default), empty_stack or both")),
		mcp.WithNumber("max_steps", mcp.Description("Search budget in expanded configurations")),
		mcp.WithOutputSchema[RunOutcome](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunInput))

	// TOOL: validate_definition
	validateTool := mcp.NewTool("validate_definition",
		mcp.WithDescription("Check a definition for structural problems and report advisory warnings."),
		mcp.WithString("library", mcp.Description("Name of a library definition (mutually exclusive with definition)")),
		mcp.WithString("definition", mcp.Description("Inline definition document as a JSON string (mutually exclusive with library)")),
		mcp.WithOutputSchema[ValidationOutcome](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidateDefinition))

	// TOOL: render_diagram
	diagramTool := mcp.NewTool("render_diagram",
		mcp.WithDescription("Render an automaton as a state diagram."),
		mcp.WithString("library", mcp.Description("Name of a library definition (mutually exclusive with definition)")),
		mcp.WithString("definition", mcp.Description("Inline definition document as a JSON string (mutually exclusive with library)")),
		mcp.WithString("format", mcp.Description("mermaid (default) or unicode")),
		mcp.WithOutputSchema[DiagramOutcome](),
	)
	s.mcpServer.AddTool(diagramTool, mcp.NewStructuredToolHandler(s.handleRenderDiagram))

	// TOOL: list_library
	s.mcpServer.AddTool(mcp.NewTool("list_library",
		mcp.WithDescription("List the automaton definitions available in the library."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.library == nil {
			return mcp.NewToolResultError("no library configured"), nil
		}
		names, err := s.library.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("library list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// resolveArgs settles the definition/library argument pair the structured
// tools share. Inline documents arrive as JSON strings.
func (s *Server) resolveArgs(ctx context.Context, args map[string]any) (*domain.Definition, error) {
	rawDef, _ := args["definition"].(string)
	name, _ := args["library"].(string)

	switch {
	case rawDef != "" && name != "":
		return nil, fmt.Errorf("definition and library are mutually exclusive")
	case rawDef != "":
		var doc map[string]any
		if err := json.Unmarshal([]byte(rawDef), &doc); err != nil {
			return nil, fmt.Errorf("definition is not valid JSON: %w", err)
		}
		return loader.FromMap(doc, "inline")
	case name != "":
		if s.library == nil {
			return nil, fmt.Errorf("no library configured")
		}
		return s.library.Get(ctx, name)
	default:
		return nil, fmt.Errorf("a definition or a library name is required")
	}
}

func (s *Server) handleRunInput(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunOutcome, error) {
	def, err := s.resolveArgs(ctx, args)
	if err != nil {
		return RunOutcome{}, err
	}

	input, _ := args["input"].(string)
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("run_input: input rejected", "error", err, "size", len(input))
		return RunOutcome{}, fmt.Errorf("input rejected: %w", err)
	}

	mode := s.mode
	if raw, ok := args["mode"].(string); ok && raw != "" {
		mode, err = domain.ParseAcceptanceMode(raw)
		if err != nil {
			return RunOutcome{}, err
		}
	}

	limit := s.stepLimit
	if raw, ok := args["max_steps"].(float64); ok && raw > 0 && int(raw) < limit {
		limit = int(raw)
	}

	eng := runtime.NewEngine(def,
		runtime.WithLogger(s.logger),
		runtime.WithAcceptanceMode(mode),
		runtime.WithStepLimit(limit),
	)
	res, err := eng.Run(ctx, domain.Symbols(clean))
	if err != nil {
		return RunOutcome{}, fmt.Errorf("run failed: %w", err)
	}

	return RunOutcome{
		Definition: def.Name,
		Input:      clean,
		Mode:       string(mode),
		Verdict:    res.Verdict.String(),
		Reason:     res.Reason,
		Expanded:   res.Expanded,
		Trace:      res.Trace.Lines(),
	}, nil
}

func (s *Server) handleValidateDefinition(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidationOutcome, error) {
	def, err := s.resolveArgs(ctx, args)
	if err != nil {
		// A definition that parsed but failed validation is this tool's
		// payload, not a tool error.
		var defErr *domain.DefinitionError
		if errors.As(err, &defErr) {
			return ValidationOutcome{Valid: false, Errors: schema.Messages(defErr.Err)}, nil
		}
		return ValidationOutcome{}, err
	}

	return ValidationOutcome{Valid: true, Warnings: validator.Warnings(def)}, nil
}

func (s *Server) handleRenderDiagram(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (DiagramOutcome, error) {
	def, err := s.resolveArgs(ctx, args)
	if err != nil {
		return DiagramOutcome{}, err
	}

	format, _ := args["format"].(string)
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
		return DiagramOutcome{}, fmt.Errorf("unknown format %q (want mermaid or unicode)", format)
	}

	return DiagramOutcome{Definition: def.Name, Format: format, Diagram: rendered}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://library
	s.mcpServer.AddResource(mcp.NewResource("espalier://library", "Definition Library Index",
		mcp.WithResourceDescription("Names of all automaton definitions available in the library."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if s.library == nil {
			return nil, fmt.Errorf("no library configured")
		}
		names, err := s.library.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list library: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://library",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: espalier://library/{name}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("espalier://library/{name}", "Automaton Definition",
		mcp.WithTemplateDescription("One definition document, readable back as an inline definition."),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if s.library == nil {
			return nil, fmt.Errorf("no library configured")
		}
		name := strings.TrimPrefix(request.Params.URI, "espalier://library/")
		def, err := s.library.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		jsonBytes, _ := json.Marshal(def)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
