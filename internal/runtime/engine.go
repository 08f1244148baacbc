package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
)

// Engine decides word acceptance for one automaton definition. It holds no
// per-run state, so a single Engine is safe for concurrent Run calls.
type Engine struct {
	def       *domain.Definition
	logger    *slog.Logger
	mode      domain.AcceptanceMode
	stepLimit int
	hooks     domain.Hooks
}

// NewEngine builds an engine around a validated definition.
func NewEngine(def *domain.Definition, opts ...Option) *Engine {
	e := &Engine{
		def:    def,
		logger: logging.NewNop(),
		mode:   domain.AcceptFinalState,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the acceptance mode the engine decides under.
func (e *Engine) Mode() domain.AcceptanceMode { return e.mode }

// Definition returns the automaton the engine runs.
func (e *Engine) Definition() *domain.Definition { return e.def }

// node is one entry of the search frontier. Parent links let an accepting
// run rebuild its trace without storing paths per configuration.
type node struct {
	cfg    domain.Configuration
	parent *node
	step   *domain.Step
}

// Run explores the configuration graph breadth-first and reports whether the
// automaton accepts the input.
//
// Every configuration is expanded at most once: successors already seen
// (same state, remaining input and stack) are not re-enqueued, so runs over
// ε-cycles still terminate. The search order is fixed by the definition's
// transition ordering, which makes traces reproducible across runs.
//
// The error return is reserved for context cancellation; step limits and
// dead searches settle inside the Result.
func (e *Engine) Run(ctx context.Context, input []domain.Symbol) (*domain.Result, error) {
	startTime := time.Now()
	start := e.def.StartConfiguration(input)

	e.logger.Debug("simulation started",
		"automaton", e.def.Name,
		"input", domain.JoinSymbols(input),
		"mode", string(e.mode),
		"step_limit", e.stepLimit,
	)

	queue := []*node{{cfg: start}}
	seen := map[string]bool{start.Fingerprint(): true}
	expanded := 0
	last := start

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			e.logger.Debug("simulation cancelled", "expanded", expanded)
			return nil, ctx.Err()
		default:
		}

		if e.stepLimit > 0 && expanded >= e.stepLimit {
			return e.settle(&domain.Result{
				Verdict:  domain.VerdictInconclusive,
				Reason:   domain.ReasonStepLimit,
				Final:    last,
				Expanded: expanded,
				Elapsed:  time.Since(startTime),
			}), nil
		}

		n := queue[0]
		queue = queue[1:]
		expanded++
		last = n.cfg

		if e.hooks.OnExpand != nil {
			e.hooks.OnExpand(n.cfg)
		}

		if e.mode.Accepts(e.def, n.cfg) {
			return e.settle(&domain.Result{
				Verdict:  domain.VerdictAccepted,
				Final:    n.cfg,
				Trace:    traceTo(n),
				Expanded: expanded,
				Elapsed:  time.Since(startTime),
			}), nil
		}

		for _, t := range e.def.TransitionsFrom(n.cfg) {
			next := t.Apply(n.cfg)
			fp := next.Fingerprint()
			if seen[fp] {
				continue
			}
			seen[fp] = true

			step := domain.Step{Transition: t, From: n.cfg, To: next}
			if e.hooks.OnApply != nil {
				e.hooks.OnApply(step)
			}
			queue = append(queue, &node{cfg: next, parent: n, step: &step})
		}
	}

	return e.settle(&domain.Result{
		Verdict:  domain.VerdictRejected,
		Reason:   domain.ReasonExhausted,
		Final:    last,
		Expanded: expanded,
		Elapsed:  time.Since(startTime),
	}), nil
}

// RunWord tokenizes raw text per rune and runs it.
func (e *Engine) RunWord(ctx context.Context, input string) (*domain.Result, error) {
	return e.Run(ctx, domain.Symbols(input))
}

func (e *Engine) settle(r *domain.Result) *domain.Result {
	e.logger.Debug("simulation settled",
		"verdict", r.Verdict.String(),
		"expanded", r.Expanded,
		"elapsed", r.Elapsed,
	)
	if e.hooks.OnVerdict != nil {
		e.hooks.OnVerdict(*r)
	}
	return r
}

// traceTo rebuilds the accepting path by walking parent links back to the
// start configuration, then reversing.
func traceTo(n *node) domain.Trace {
	var trace domain.Trace
	for cur := n; cur.step != nil; cur = cur.parent {
		trace = append(trace, *cur.step)
	}
	for i, j := 0, len(trace)-1; i < j; i, j = i+1, j-1 {
		trace[i], trace[j] = trace[j], trace[i]
	}
	return trace
}
