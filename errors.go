package headlessmc

import "github.com/wagiedev/headlessmc-go/internal/errors"

// Re-export error types from internal package

// JavaNotFoundError indicates no java executable was found.
type JavaNotFoundError = errors.JavaNotFoundError

// JarNotFoundError indicates the launcher jar does not exist.
type JarNotFoundError = errors.JarNotFoundError

// ConnectionError indicates the launcher process could not be started.
type ConnectionError = errors.ConnectionError

// ProcessError indicates the launcher process exited unexpectedly.
type ProcessError = errors.ProcessError

// OperationError indicates the launcher reported a failure for an operation.
type OperationError = errors.OperationError

// UnexpectedOutputError indicates a login saw too many unrelated lines.
type UnexpectedOutputError = errors.UnexpectedOutputError

// FatalError marks an unrecoverable condition. The program should stop.
type FatalError = errors.FatalError

// HeadlessMCError is the base interface for all errors in this package.
type HeadlessMCError = errors.HeadlessMCError

// Re-export sentinel errors from internal package.
var (
	// ErrNotStarted indicates the launcher has not been started.
	ErrNotStarted = errors.ErrNotStarted

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrProcessExited indicates the launcher is no longer running.
	ErrProcessExited = errors.ErrProcessExited

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrMissingVersion indicates a launch without a version.
	ErrMissingVersion = errors.ErrMissingVersion

	// ErrOperationInProgress indicates an operation of the same kind is pending.
	ErrOperationInProgress = errors.ErrOperationInProgress

	// ErrOperationTimeout indicates an operation did not complete in time.
	ErrOperationTimeout = errors.ErrOperationTimeout

	// ErrInstanceLocked indicates another supervisor holds the lock file.
	ErrInstanceLocked = errors.ErrInstanceLocked
)

// IsFatal reports whether err is, or wraps, a FatalError.
func IsFatal(err error) bool {
	return errors.IsFatal(err)
}
