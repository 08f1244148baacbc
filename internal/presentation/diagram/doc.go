// Package diagram renders automaton definitions as text: a Unicode canvas
// drawing with one circle per state, and Mermaid state diagrams for
// embedding in markdown tooling. Both renderers are pure string producers;
// callers decide where the output goes.
package diagram
