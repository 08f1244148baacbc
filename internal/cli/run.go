package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/adapters/sqlite"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/runner"
)

// RunOptions contains all the configuration for the run verb.
type RunOptions struct {
	// File is the definition document to load.
	File string

	// Input is the word to decide.
	Input string

	// Mode overrides the acceptance mode. Empty means final_state.
	Mode string

	// MaxSteps caps the configurations expanded. Zero means unbounded.
	MaxSteps int

	// Trace prints the accepting path after the verdict.
	Trace bool

	// Follow prints every configuration as the search dequeues it.
	Follow bool

	// JSON emits the full result as one JSON document instead of text.
	JSON bool

	// Debug enables verbose logging to stderr.
	Debug bool

	// HistoryPath, when set, appends the finished run to the sqlite history.
	HistoryPath string

	// Output defaults to os.Stdout.
	Output io.Writer
}

// Run decides one input word and returns the exit code for the process:
// 0 accepted, 2 rejected, 3 inconclusive or interrupted. A non-nil error
// means a usage or definition problem; callers exit 1 for those.
func Run(opts RunOptions) (int, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger := createLogger(opts.Debug)

	mode, err := domain.ParseAcceptanceMode(opts.Mode)
	if err != nil {
		return ExitUsage, err
	}

	input, err := runner.SanitizeInput(opts.Input)
	if err != nil {
		return ExitUsage, fmt.Errorf("invalid input: %w", err)
	}

	engineOpts := []espalier.Option{
		espalier.WithAcceptanceMode(mode),
		espalier.WithStepLimit(opts.MaxSteps),
	}
	if opts.Debug {
		engineOpts = append(engineOpts,
			espalier.WithLogger(logger),
			espalier.WithHooks(createDebugHooks(logger)),
		)
	}
	if opts.Follow {
		engineOpts = append(engineOpts, espalier.WithHooks(domain.Hooks{
			OnExpand: func(c domain.Configuration) {
				fmt.Fprintln(out, tui.RenderFrontier([]domain.Configuration{c}))
			},
		}))
	}

	eng, err := espalier.New(opts.File, engineOpts...)
	if err != nil {
		return ExitUsage, err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	res, err := eng.Run(sigCtx, input)
	if err != nil {
		if handleExecutionError(err) == nil {
			if !opts.JSON {
				fmt.Fprintln(out)
				printSystemMessage(out, "Interrupted before a verdict was reached.")
			}
			return ExitInconclusive, nil
		}
		return ExitUsage, err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return ExitUsage, err
		}
	} else {
		renderResult(out, res, opts.Trace)
	}

	recordHistory(sigCtx, logger, opts, eng, mode, input, res)

	return ExitCode(res.Verdict), nil
}

func renderResult(w io.Writer, res *domain.Result, withTrace bool) {
	fmt.Fprintln(w, tui.RenderVerdict(res.Verdict))
	if res.Reason != "" {
		fmt.Fprintf(w, "Reason: %s\n", res.Reason)
	}
	fmt.Fprintf(w, "Expanded %d configurations in %s.\n",
		res.Expanded, res.Elapsed.Round(time.Microsecond))

	if withTrace && len(res.Trace) > 0 {
		fmt.Fprintln(w, "\nAccepting trace:")
		for _, line := range res.Trace.Lines() {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// recordHistory appends the run to the sqlite store. Failures only warn:
// losing a history row must not change the verdict or the exit code.
func recordHistory(ctx context.Context, logger *slog.Logger, opts RunOptions, eng *espalier.Engine, mode domain.AcceptanceMode, input string, res *domain.Result) {
	if opts.HistoryPath == "" {
		return
	}

	store, err := sqlite.Open(opts.HistoryPath)
	if err != nil {
		logger.Warn("history disabled", "path", opts.HistoryPath, "error", err)
		return
	}
	defer store.Close()

	rec := domain.NewRunRecord(eng.Name, "file:"+opts.File, input, mode, res)
	if err := store.Append(ctx, rec); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}
