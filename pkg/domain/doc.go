/*
Package domain contains the core domain models for the espalier engine.

It defines the fundamental entities of a pushdown automaton, such as the
Definition, Transitions, the symbol Stack, and the immutable Configuration
the simulation walks through. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Definition: The automaton itself (states, alphabets, transitions).
  - Transition: A rule moving the machine between states, possibly consuming
    input and rewriting the stack top.
  - Configuration: An instantaneous description (state, remaining input,
    stack). Never mutated; applying a transition yields a new value.
  - Result: The outcome of a run (verdict, trace, final configuration).
  - Snapshot: The persistable form of an interactive stepping session.
*/
package domain
