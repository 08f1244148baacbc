package domain

// Hooks are optional callbacks for observing a run. Nil fields are skipped.
// Callbacks run synchronously on the engine goroutine, so they must be fast
// and must not block.
type Hooks struct {
	// OnExpand fires when a configuration is dequeued for expansion.
	OnExpand func(Configuration)

	// OnApply fires when a transition produces a new configuration.
	OnApply func(Step)

	// OnVerdict fires once, when the run settles.
	OnVerdict func(Result)
}

// Merge layers other over h: non-nil callbacks from both are chained, h's
// first. Useful to combine logging hooks with metrics hooks.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnExpand:  chainConfig(h.OnExpand, other.OnExpand),
		OnApply:   chainStep(h.OnApply, other.OnApply),
		OnVerdict: chainResult(h.OnVerdict, other.OnVerdict),
	}
}

func chainConfig(a, b func(Configuration)) func(Configuration) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(c Configuration) { a(c); b(c) }
}

func chainStep(a, b func(Step)) func(Step) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(s Step) { a(s); b(s) }
}

func chainResult(a, b func(Result)) func(Result) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(r Result) { a(r); b(r) }
}
