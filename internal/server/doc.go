// Package server provides the daemon's status HTTP surface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; handlers
// do their own method filtering.
//
// # Status Handler
//
// [StatusHandler] exposes two read-only endpoints while the daemon runs:
//   - /health reports liveness and uptime
//   - /status reports per-loop scheduler counters as JSON
//
// The handler holds no state of its own; it snapshots the scheduler through a
// callback on every request.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
