package domain

// State is the name of a control state of the automaton ("q0", "accept").
// It carries no behaviour of its own; the Definition decides membership and
// finality.
type State string
