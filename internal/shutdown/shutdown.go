// Package shutdown stops the launcher, taking any running game with it.
package shutdown

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/proctree"
)

// Target is the supervised launcher as seen by the Coordinator.
type Target interface {
	Pid() int
	Running() bool
	Interactive() bool
	SetInteractive(active bool)
	SendLine(ctx context.Context, line string) error
	MarkClosing()
}

// Coordinator implements quit.
//
// With no game running the launcher is asked to quit and exits on its own.
// Once a game has been launched the launcher no longer reads commands, so
// the whole process tree is killed instead.
type Coordinator struct {
	log      *slog.Logger
	target   Target
	locator  proctree.Locator
	signaler proctree.Signaler
}

// New creates a Coordinator. A nil locator or signaler selects the
// platform default.
func New(
	log *slog.Logger,
	target Target,
	locator proctree.Locator,
	signaler proctree.Signaler,
) *Coordinator {
	if locator == nil {
		locator = proctree.NewLocator()
	}

	if signaler == nil {
		signaler = proctree.NewSignaler()
	}

	return &Coordinator{
		log:      log.With("component", "shutdown"),
		target:   target,
		locator:  locator,
		signaler: signaler,
	}
}

// Quit stops the launcher.
//
// It does not wait for the process to exit; the exit is observed by the
// supervisor's relay like any other.
func (c *Coordinator) Quit(ctx context.Context) error {
	pid := c.target.Pid()
	if pid == 0 {
		return errors.ErrNotStarted
	}

	if !c.target.Running() {
		return errors.ErrProcessExited
	}

	if !c.target.Interactive() {
		c.log.Info("Asking launcher to quit", "pid", pid)

		// The exit that follows was requested, whatever its code.
		c.target.MarkClosing()

		return c.target.SendLine(ctx, command.Encode(command.Quit{}))
	}

	c.target.MarkClosing()

	c.log.Info("Killing launcher process tree", "pid", pid)

	var errs []error

	children, err := c.locate(ctx, pid)
	if err != nil {
		c.log.Warn("Could not list launcher descendants", "pid", pid, "error", err)

		errs = append(errs, fmt.Errorf("locate descendants of %d: %w", pid, err))
	}

	for _, child := range children {
		c.log.Debug("Killing descendant", "pid", child)

		errs = append(errs, c.kill(child))
	}

	// The root goes last and goes regardless of the lookup.
	errs = append(errs, c.kill(pid))

	c.target.SetInteractive(false)

	return stderrors.Join(errs...)
}

// locate runs the process-table walk on its own goroutine so a slow walk
// cannot outlive ctx.
func (c *Coordinator) locate(ctx context.Context, pid int) ([]int, error) {
	type result struct {
		pids []int
		err  error
	}

	done := make(chan result, 1)

	go func() {
		pids, err := c.locator.Descendants(ctx, pid)
		done <- result{pids: pids, err: err}
	}()

	select {
	case r := <-done:
		return r.pids, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Coordinator) kill(pid int) error {
	err := c.signaler.Kill(pid)
	if stderrors.Is(err, errors.ErrProcessGone) {
		c.log.Debug("Process already gone", "pid", pid)

		return nil
	}

	return err
}
