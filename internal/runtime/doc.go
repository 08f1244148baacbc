// Package runtime implements the simulation engine: a breadth-first search
// over the configuration graph of a pushdown automaton, plus the interactive
// session used for manual stepping.
//
// The engine is stateless across runs. All per-run bookkeeping (queue,
// visited set, parent links) lives on the stack of Run, so a single Engine
// can serve concurrent runs of the same definition.
package runtime
