/*
Package observability provides hooks for auditing and measuring game edits.

The editor emits a NodeEvent after every node mutation attempt and a
GameEvent after every game-level change. Hooks can be combined with Chain;
LoggingHooks writes them to slog and Metrics exports them to Prometheus.
*/
package observability
