package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Runner handles the interactive walk loop using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs
// JSON), which allows easy testing and integration with different frontends.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input and
	// Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter for resumable walks.
	// If nil, sessions are ephemeral.
	Store ports.SessionStore

	// Input and Output back the default TextHandler when no Handler is set.
	Input  io.Reader
	Output io.Writer
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner() *Runner {
	return &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run executes the interactive loop over sess until the walk settles, the
// user quits, EOF, or context cancellation.
//
// If sessionID is non-empty and a Store is configured, the session is saved
// after every move, so an interrupted walk can be resumed later. The caller
// keeps ownership of sess and can read its verdict after Run returns.
func (r *Runner) Run(ctx context.Context, sess *espalier.Session, sessionID string) error {
	if sess == nil {
		return fmt.Errorf("runner requires a session")
	}

	handler := r.resolveHandler()
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for {
		event := StepEvent{
			Configuration: sess.Current(),
			Candidates:    sess.Applicable(),
			Verdict:       sess.Verdict(""),
			Moves:         len(sess.History()),
		}

		needsInput, err := handler.Output(ctx, event)
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if event.Verdict != domain.VerdictSearching {
			logger.Debug("walk settled", "verdict", event.Verdict.String(), "moves", event.Moves)
			return nil
		}
		if !needsInput {
			// The handler is a one-way consumer; nothing moves without input.
			return nil
		}

		line, err := handler.Input(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("input error: %w", err)
		}

		depth := len(sess.History())
		quit, err := r.dispatch(ctx, handler, sess, line)
		if err != nil {
			return err
		}

		// Commit phase: persist only when the session actually moved.
		if len(sess.History()) != depth {
			if err := r.saveSession(ctx, sessionID, sess, logger); err != nil {
				return fmt.Errorf("critical persistence error: %w", err)
			}
		}

		if quit {
			return nil
		}
	}
}

// dispatch interprets one command line against the session. Bad commands are
// reported through the handler and leave the session untouched.
func (r *Runner) dispatch(ctx context.Context, handler IOHandler, sess *espalier.Session, line string) (quit bool, err error) {
	switch line {
	case "q", "quit", "exit":
		return true, nil
	case "b", "back":
		if err := sess.Back(); err != nil {
			return false, handler.SystemOutput(ctx, "Already at the start configuration.")
		}
		return false, nil
	case "":
		// Bare return redraws the current step.
		return false, nil
	}

	choice, convErr := strconv.Atoi(line)
	if convErr != nil {
		hint := fmt.Sprintf("Unknown command %q. Enter a transition number, b to go back, or q to quit.", line)
		return false, handler.SystemOutput(ctx, hint)
	}

	// Menu numbers are one-based.
	if _, err := sess.Apply(choice - 1); err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			return false, handler.SystemOutput(ctx, fmt.Sprintf("No transition numbered %d.", choice))
		}
		return false, err
	}
	return false, nil
}

func (r *Runner) saveSession(ctx context.Context, sessionID string, sess *espalier.Session, logger *slog.Logger) error {
	if r.Store == nil || sessionID == "" {
		return nil
	}
	snap := sess.Snapshot()
	snap.SessionID = sessionID
	if err := r.Store.Save(ctx, sessionID, snap); err != nil {
		return err
	}
	logger.Debug("session saved", "session_id", sessionID, "state", string(snap.Current.State))
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(r.Input, r.Output)
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
