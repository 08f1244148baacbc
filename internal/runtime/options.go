package runtime

import (
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAcceptanceMode sets the acceptance predicate. Defaults to
// domain.AcceptFinalState.
func WithAcceptanceMode(mode domain.AcceptanceMode) Option {
	return func(e *Engine) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithStepLimit caps the number of configurations a run may expand.
// Zero (the default) means unbounded; exceeding the cap makes the run
// settle as Inconclusive instead of guessing.
func WithStepLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.stepLimit = limit
		}
	}
}

// WithHooks registers run observers. Multiple WithHooks options chain,
// earlier hooks firing first.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}
