package espalier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
)

// Engine is the high-level entry point for the Espalier library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime   *runtime.Engine
	def       *domain.Definition
	mode      domain.AcceptanceMode
	stepLimit int
	hooks     domain.Hooks
	logger    *slog.Logger
	Name      string
}

// Session is an interactive run the caller drives move by move, with
// explicit transition choice and backtracking. Engine.NewSession creates one.
type Session = runtime.Session

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithDefinition injects an in-memory definition, bypassing the file loader.
func WithDefinition(def *domain.Definition) Option {
	return func(e *Engine) {
		e.def = def
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAcceptanceMode sets the acceptance predicate. The default accepts by
// final state.
func WithAcceptanceMode(mode domain.AcceptanceMode) Option {
	return func(e *Engine) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithStepLimit caps the configurations a single run may expand before it
// settles as inconclusive. Zero means unbounded.
func WithStepLimit(limit int) Option {
	return func(e *Engine) {
		e.stepLimit = limit
	}
}

// WithHooks registers run observers. Repeated options chain, earlier hooks
// firing first.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// New initializes a new Espalier Engine from the definition file at path.
// Any format the loader knows (YAML, JSON, Markdown, ASCII table, CSV, HCL)
// is accepted; the extension picks the parser.
//
// If WithDefinition is provided, path may be empty and no file is read.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{mode: domain.AcceptFinalState}

	// Apply options first to check whether a definition was injected.
	for _, opt := range opts {
		opt(eng)
	}

	if eng.def == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no definition is injected")
		}
		def, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		eng.def = def
	}

	if err := validator.Validate(eng.def); err != nil {
		return nil, err
	}

	eng.Name = eng.def.Name
	if eng.Name == "" && path != "" {
		base := filepath.Base(path)
		eng.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	// Ensure the logger is initialized so nil is never passed to the runtime,
	// which would overwrite its own default.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("automaton", eng.Name)
	}

	eng.runtime = runtime.NewEngine(eng.def,
		runtime.WithLogger(eng.logger),
		runtime.WithAcceptanceMode(eng.mode),
		runtime.WithStepLimit(eng.stepLimit),
		runtime.WithHooks(eng.hooks),
	)

	return eng, nil
}

// Run tokenizes input per rune and decides acceptance.
func (e *Engine) Run(ctx context.Context, input string) (*domain.Result, error) {
	return e.runtime.RunWord(ctx, input)
}

// RunSymbols decides acceptance for a pre-tokenized input word. Use it when
// symbols are wider than one rune.
func (e *Engine) RunSymbols(ctx context.Context, input []domain.Symbol) (*domain.Result, error) {
	return e.runtime.Run(ctx, input)
}

// NewSession starts an interactive run over input, beginning at the initial
// configuration. The session shares the engine's definition and acceptance
// mode but none of its other settings; hooks do not fire for session moves.
func (e *Engine) NewSession(input string) *Session {
	return runtime.NewSession(e.def, domain.Symbols(input), e.mode)
}

// Restore rebuilds an interactive session from a persisted snapshot. The
// snapshot carries its own definition and acceptance mode, so no engine is
// needed.
func Restore(snap *domain.Snapshot) (*Session, error) {
	return runtime.Restore(snap)
}

// Definition returns the automaton the engine runs.
func (e *Engine) Definition() *domain.Definition {
	return e.def
}

// Mode returns the acceptance mode the engine decides under.
func (e *Engine) Mode() domain.AcceptanceMode {
	return e.runtime.Mode()
}

// Validate re-checks the definition's structural integrity. New already
// validates, so this only fails for definitions mutated after construction.
func (e *Engine) Validate() error {
	return validator.Validate(e.def)
}

// Warnings reports lint findings that do not make the definition invalid,
// such as unreachable states or unused stack symbols.
func (e *Engine) Warnings() []string {
	return validator.Warnings(e.def)
}
