// Package errors defines error types for the launcher supervisor.
//
// This package provides structured error types for the failure classes of a
// supervised launcher: precondition violations, failures reported by the
// launcher's output, fatal process conditions, and invalid-state calls. All
// error types support unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
