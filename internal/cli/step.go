package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/aretw0/espalier/pkg/session"
)

// StepOptions contains all the configuration for the step verb.
type StepOptions struct {
	// File is the definition document to load.
	File string

	// Input is the word to walk. Ignored when a stored session is resumed;
	// the snapshot carries its own input.
	Input string

	// Mode overrides the acceptance mode. Empty means final_state.
	Mode string

	// SessionID makes the walk durable: it is saved after every move and
	// resumed on the next invocation with the same ID.
	SessionID string

	// Fresh discards any stored session with this ID before starting.
	Fresh bool

	// JSON switches the REPL to the NDJSON protocol.
	JSON bool

	// Debug enables verbose logging to stderr.
	Debug bool

	// Store overrides the session store. Nil defaults to the file store
	// under .espalier/sessions when SessionID is set.
	Store ports.SessionStore

	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
}

// Step walks one input interactively, move by move, until the walk settles
// or the user quits.
func Step(opts StepOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	logger := createLogger(opts.Debug)

	mode, err := domain.ParseAcceptanceMode(opts.Mode)
	if err != nil {
		return err
	}

	input, err := runner.SanitizeInput(opts.Input)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	interactive := !opts.JSON && isTerminal(in)
	if interactive {
		tui.PrintBanner()
	}

	engineOpts := []espalier.Option{espalier.WithAcceptanceMode(mode)}
	if opts.Debug {
		engineOpts = append(engineOpts, espalier.WithLogger(logger))
	}
	eng, err := espalier.New(opts.File, engineOpts...)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sess := eng.NewSession(input)

	var store ports.SessionStore
	if opts.SessionID != "" {
		store = opts.Store
		if store == nil {
			store = file.New("")
		}
		if opts.Fresh {
			if err := store.Delete(sigCtx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}

		mgr := session.NewManager(store, session.WithLogger(logger))

		snap, err := mgr.Load(sigCtx, opts.SessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			fresh := sess.Snapshot()
			fresh.Source = "file:" + opts.File
			snap, err = mgr.LoadOrStart(sigCtx, opts.SessionID, fresh)
			if err != nil {
				return fmt.Errorf("failed to init session: %w", err)
			}
			logger.Info("Session Created", "session_id", opts.SessionID)
			if interactive {
				printSystemMessage(out, "Session '%s' active.", opts.SessionID)
			}
		case err != nil:
			return fmt.Errorf("failed to load session: %w", err)
		default:
			logger.Info("Session Resumed",
				"session_id", opts.SessionID, "state", string(snap.Current.State))
			if interactive {
				printSystemMessage(out, "Resuming at state '%s' after %d moves.",
					snap.Current.State, len(snap.Steps))
			}
		}

		sess, err = espalier.Restore(snap)
		if err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}
	}

	r := runner.NewRunner()
	r.Logger = logger
	r.Store = store
	r.Input = in
	r.Output = out
	if opts.JSON {
		r.Handler = runner.NewJSONHandler(in, out)
	}

	runErr := r.Run(sigCtx, sess, opts.SessionID)
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	logStepCompletion(out, sess, opts, interactive, runErr, sigCtx)

	return handleExecutionError(runErr)
}

// logStepCompletion reports where an unsettled walk stopped. Settled walks
// already printed their verdict through the handler.
func logStepCompletion(out io.Writer, sess *espalier.Session, opts StepOptions, interactive bool, runErr error, sigCtx *SignalContext) {
	if !interactive || sess.Verdict("") != domain.VerdictSearching {
		return
	}
	if runErr != nil && !isInterrupted(runErr) {
		// A real error is about to surface; no status line on top of it.
		return
	}
	if sigCtx.Signal() == os.Interrupt {
		// The ^C landed mid-prompt; break the line before writing.
		fmt.Fprintln(out)
	}
	if opts.SessionID != "" {
		printSystemMessage(out, "Paused at state '%s' after %d moves. Resume with --session %s.",
			sess.Current().State, len(sess.History()), opts.SessionID)
		return
	}
	printSystemMessage(out, "Stopped at state '%s' after %d moves.",
		sess.Current().State, len(sess.History()))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
