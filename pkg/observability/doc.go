/*
Package observability exposes engine activity as Prometheus metrics.

Metrics wires into a simulation through the engine hook points: build an
engine with the hooks returned by [Metrics.Hooks] and every run feeds the
run counter, the duration histogram and the expanded-configuration counter.
Session lifecycle is tracked separately via [Metrics.SessionOpened] and
[Metrics.SessionClosed].

The HTTP adapter mounts [Metrics.Handler] under /metrics.
*/
package observability
