// Package logging wires log/slog for sonus.
//
// It provides a compact console handler for interactive runs, a JSON handler
// for machine consumption, attribute helpers, and component-scoped loggers so
// every subsystem tags its events uniformly.
package logging
