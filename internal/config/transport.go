// Package config provides configuration types for the launcher supervisor.
package config

import (
	"context"

	"github.com/wagiedev/headlessmc-go/internal/event"
)

// Transport defines the interface for talking to the launcher process.
// Implement this to provide custom transports for testing or mocking.
//
// The default implementation is subprocess.Process, which spawns the
// launcher jar. Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start spawns the launcher. A second call fails with ErrAlreadyStarted.
	Start(ctx context.Context) error

	// ReadEvents returns channels for classified output and for errors.
	// The error channel yields at most one fatal error (an unexpected exit).
	// Both channels are closed once the process has exited and its output
	// has been drained.
	ReadEvents(ctx context.Context) (<-chan event.Event, <-chan error)

	// SendLine writes line plus a newline to the launcher's stdin.
	// This method must be safe for concurrent use.
	SendLine(ctx context.Context, line string) error

	// Pid returns the launcher's process ID, or 0 before Start.
	Pid() int

	// Running reports whether the launcher has been started and not yet exited.
	Running() bool

	// Interactive reports whether a launched game session is believed active.
	Interactive() bool

	// SetInteractive records whether a game session is active.
	SetInteractive(active bool)

	// MarkClosing flags the next exit as intentional so it is not reported
	// as a fatal error.
	MarkClosing()

	// Close marks the transport closing and kills the launcher if it is
	// still running. It's safe to call Close multiple times.
	Close() error
}
