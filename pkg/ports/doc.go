/*
Package ports defines the driven ports (interfaces) for the espalier core.

These interfaces decouple the simulator from external implementations,
allowing sessions, run history and definition libraries to live in memory,
on disk, in Redis or in SQLite without the core knowing which.

# Key Interfaces

  - SessionStore: persists interactive session snapshots, enabling
    "stop & resume" walks across processes.
  - Locker: provides distributed locking so replicas do not step the same
    session concurrently.
  - RunStore: append-only history of finished runs.
  - Library: named collections of automaton definitions.
*/
package ports
