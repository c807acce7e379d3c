package errors

import (
	"errors"
	"fmt"
)

// HeadlessMCError is the base interface for all supervisor errors.
type HeadlessMCError interface {
	error
	IsHeadlessMCError() bool
}

// Compile-time verification that all error types implement HeadlessMCError.
var (
	_ HeadlessMCError = (*JavaNotFoundError)(nil)
	_ HeadlessMCError = (*JarNotFoundError)(nil)
	_ HeadlessMCError = (*ConnectionError)(nil)
	_ HeadlessMCError = (*ProcessError)(nil)
	_ HeadlessMCError = (*OperationError)(nil)
	_ HeadlessMCError = (*UnexpectedOutputError)(nil)
	_ HeadlessMCError = (*FatalError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotStarted indicates the launcher process has not been started.
	ErrNotStarted = errors.New("launcher process not started")

	// ErrAlreadyStarted indicates Start was called on a running supervisor.
	ErrAlreadyStarted = errors.New("launcher process already started")

	// ErrProcessExited indicates the launcher process is no longer running.
	ErrProcessExited = errors.New("launcher process exited")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with New()")

	// ErrMissingVersion indicates a launch was requested without a version.
	ErrMissingVersion = errors.New("launch requires a version")

	// ErrOperationInProgress indicates an operation of the same kind is still pending.
	ErrOperationInProgress = errors.New("operation already in progress")

	// ErrOperationTimeout indicates a pending operation did not complete in time.
	ErrOperationTimeout = errors.New("operation timeout")

	// ErrProcessGone indicates a signal target no longer exists.
	ErrProcessGone = errors.New("process no longer exists")

	// ErrInstanceLocked indicates another supervisor holds the instance lock.
	ErrInstanceLocked = errors.New("instance locked by another supervisor")
)

// JavaNotFoundError indicates no java executable could be located.
type JavaNotFoundError struct {
	SearchedPaths []string
}

func (e *JavaNotFoundError) Error() string {
	return fmt.Sprintf("java executable not found in: %v", e.SearchedPaths)
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *JavaNotFoundError) IsHeadlessMCError() bool { return true }

// JarNotFoundError indicates the launcher jar does not exist.
type JarNotFoundError struct {
	Path string
}

func (e *JarNotFoundError) Error() string {
	if e.Path == "" {
		return "launcher jar not configured"
	}

	return fmt.Sprintf("launcher jar not found: %s", e.Path)
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *JarNotFoundError) IsHeadlessMCError() bool { return true }

// ConnectionError indicates the launcher process could not be spawned or wired.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to start launcher: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *ConnectionError) IsHeadlessMCError() bool { return true }

// ProcessError indicates the launcher process exited unexpectedly.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("launcher process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("launcher process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *ProcessError) IsHeadlessMCError() bool { return true }

// OperationError indicates the launcher reported a failure for a pending operation.
// Payload is the raw output line that was classified as a failure.
type OperationError struct {
	Op      string
	Payload string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Payload)
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *OperationError) IsHeadlessMCError() bool { return true }

// UnexpectedOutputError indicates an operation saw too many lines that matched
// none of its markers.
type UnexpectedOutputError struct {
	Op      string
	Payload string
	Count   int
}

func (e *UnexpectedOutputError) Error() string {
	return fmt.Sprintf("%s: unexpected output after %d lines: %q", e.Op, e.Count, e.Payload)
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *UnexpectedOutputError) IsHeadlessMCError() bool { return true }

// FatalError marks a condition the supervisor cannot recover from: the
// launcher crashed or a launch reported an exception. Callers should stop
// the program rather than retry.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsHeadlessMCError implements HeadlessMCError.
func (e *FatalError) IsHeadlessMCError() bool { return true }

// IsFatal reports whether err is, or wraps, a FatalError.
func IsFatal(err error) bool {
	_, ok := errors.AsType[*FatalError](err)

	return ok
}
