// Package cli implements the verbs behind the espalier binary: batch runs,
// the interactive stepper, and the shared plumbing (signals, logging,
// session backends) the cobra layer wires together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
)

// Exit codes of the run verb. Scripts branch on them, so they are part of
// the CLI contract.
const (
	ExitAccepted     = 0
	ExitUsage        = 1
	ExitRejected     = 2
	ExitInconclusive = 3
)

// ExitCode maps a settled verdict onto the process exit code.
func ExitCode(v domain.Verdict) int {
	switch v {
	case domain.VerdictAccepted:
		return ExitAccepted
	case domain.VerdictRejected:
		return ExitRejected
	case domain.VerdictInconclusive:
		return ExitInconclusive
	default:
		return ExitUsage
	}
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// createDebugHooks logs every search event. Wired only under --debug; the
// callbacks run on the engine goroutine so they stay log-only.
func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnExpand: func(c domain.Configuration) {
			logger.Debug("Expand", "state", c.State, "remaining", len(c.Remaining), "stack", c.Stack.String())
		},
		OnApply: func(s domain.Step) {
			logger.Debug("Apply", "transition", s.Transition.String())
		},
		OnVerdict: func(r domain.Result) {
			logger.Debug("Verdict", "verdict", r.Verdict.String(), "expanded", r.Expanded)
		},
	}
}

// SessionBackend bundles a configured session store with the optional
// distributed locker that shares its connection.
type SessionBackend struct {
	Store  ports.SessionStore
	Locker ports.Locker

	closer func() error
}

// Close releases backend connections. Safe on backends without any.
func (b *SessionBackend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer()
}

// BuildSessionBackend constructs the session store named by the config:
// memory, file, or redis. Redis backends get a matching distributed locker,
// and a configured encryption key wraps the store in the sealing middleware.
func BuildSessionBackend(cfg *config.Config, logger *slog.Logger) (*SessionBackend, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	backend := &SessionBackend{}

	switch cfg.Sessions.Backend {
	case "", "memory":
		backend.Store = memory.NewStore()
	case "file":
		backend.Store = file.New(cfg.Sessions.Path)
	case "redis":
		if cfg.Sessions.RedisURL == "" {
			return nil, fmt.Errorf("sessions.redis_url is required for the redis backend")
		}
		store, err := redis.OpenURL(cfg.Sessions.RedisURL)
		if err != nil {
			return nil, err
		}
		backend.Store = store
		backend.Locker = redis.NewLocker(store.Client(), "espalier:")
		backend.closer = store.Close
		logger.Info("session store connected", "backend", "redis")
	default:
		return nil, fmt.Errorf("unknown session backend %q (want memory, file or redis)", cfg.Sessions.Backend)
	}

	key, err := cfg.Sessions.Key()
	if err != nil {
		return nil, err
	}
	if key != nil {
		backend.Store = middleware.Chain(backend.Store,
			middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
		)
		logger.Info("session encryption enabled", "key", cfg.Sessions.RedactedKey())
	}

	return backend, nil
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError swallows interruption errors so Ctrl-C exits clean.
func handleExecutionError(err error) error {
	if isInterrupted(err) {
		return nil
	}
	return err
}
