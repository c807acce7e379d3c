package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/event"
)

// Sender writes one command line to the launcher.
//
// This interface is satisfied by subprocess.Process but allows for testing
// with mock senders.
type Sender interface {
	SendLine(ctx context.Context, line string) error
}

// Config tunes a Controller.
type Config struct {
	// LoginTimeout bounds Login. Zero means no limit.
	LoginTimeout time.Duration

	// LaunchTimeout bounds Launch. Zero means no limit.
	LaunchTimeout time.Duration
}

// Controller correlates commands sent to the launcher with the output
// lines that answer them.
//
// The Controller handles:
//   - Subscribing an operation's Machine to the bus before its command is sent
//   - Waiting for the Machine's result, a timeout, cancellation, or a fatal error
//   - Allowing one pending operation of each kind at a time
//   - Escalating a launch exception to the supervisor-wide fatal error
//
// Events must be published on a single goroutine; Machines rely on it.
type Controller struct {
	log     *slog.Logger
	bus     *event.Bus
	sender  Sender
	session Session
	cfg     Config

	// Pending operations keyed by operation ID
	pendingMu sync.Mutex
	pending   map[string]*pendingOperation

	unobserve func()

	// Fatal error handling - stores error and broadcasts via done channel
	errMu    sync.RWMutex
	fatalErr error

	closeOnce sync.Once
	done      chan struct{}
}

// pendingOperation tracks an operation awaiting its result.
type pendingOperation struct {
	op      string
	started time.Time
}

// NewController creates a new operation controller.
func NewController(
	log *slog.Logger,
	bus *event.Bus,
	sender Sender,
	session Session,
	cfg Config,
) *Controller {
	c := &Controller{
		log:     log.With("component", "protocol"),
		bus:     bus,
		sender:  sender,
		session: session,
		cfg:     cfg,
		pending: make(map[string]*pendingOperation, 2),
		done:    make(chan struct{}),
	}

	c.unobserve = bus.Subscribe(c.observe)

	return c
}

// closeDone safely closes the done channel exactly once.
func (c *Controller) closeDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// SetFatalError stores a fatal error and broadcasts to all waiters by closing done.
// Only the first error is kept.
func (c *Controller) SetFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.closeDone()
}

// FatalError returns the fatal error if one occurred.
func (c *Controller) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

// Done returns a channel that is closed when the controller stops.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Stop releases every waiter. Pending operations fail with the fatal error
// if one was set, otherwise ErrProcessExited. It's safe to call Stop
// multiple times.
func (c *Controller) Stop() {
	c.log.Debug("Stopping protocol controller")

	c.unobserve()
	c.closeDone()
}

// Login sends a login command and waits for the launcher to confirm it.
//
// A URL printed by the launcher is published as a login prompt and the
// wait continues.
func (c *Controller) Login(ctx context.Context, cmd command.Login) error {
	machine := NewLoginMachine(c.bus.Prompt)

	return c.run(ctx, "login", cmd, machine, c.cfg.LoginTimeout)
}

// Launch sends a launch command and waits until the game is created.
//
// An exception during launch is fatal: it is returned and also set as the
// controller's fatal error.
func (c *Controller) Launch(ctx context.Context, cmd command.Launch) error {
	if err := command.Validate(cmd); err != nil {
		return err
	}

	machine := NewLaunchMachine(c.session)

	return c.run(ctx, "launch", cmd, machine, c.cfg.LaunchTimeout)
}

// Send encodes cmd and writes it without waiting for a reply.
func (c *Controller) Send(ctx context.Context, cmd command.Command, positional ...string) error {
	if err := command.Validate(cmd); err != nil {
		return err
	}

	select {
	case <-c.done:
		return c.stoppedErr()
	default:
	}

	line := command.Encode(cmd, positional...)

	if err := c.sender.SendLine(ctx, line); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Name(), err)
	}

	return nil
}

// Pending returns the number of operations awaiting a result.
func (c *Controller) Pending() int {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	return len(c.pending)
}

// run drives one operation from send to result.
func (c *Controller) run(
	ctx context.Context,
	op string,
	cmd command.Command,
	machine Machine,
	timeout time.Duration,
) error {
	select {
	case <-c.done:
		return c.stoppedErr()
	default:
	}

	id, err := c.register(op)
	if err != nil {
		return err
	}
	defer c.unregister(id)

	log := c.log.With("op", op, "op_id", id)

	result := make(chan error, 1)

	var once sync.Once

	// Subscribe before sending so no reply line can be missed.
	unsubscribe := c.bus.Subscribe(func(ev event.Event) {
		if !machine.Handle(ev) {
			return
		}

		once.Do(func() {
			err := machine.Err()
			if errors.IsFatal(err) {
				log.Error("Operation failed fatally", "error", err)
				c.SetFatalError(err)
			}

			result <- err
		})
	})
	defer unsubscribe()

	line := command.Encode(cmd)

	log.Debug("Sending operation", "line", line)

	if err := c.sender.SendLine(ctx, line); err != nil {
		return fmt.Errorf("send %s: %w", op, err)
	}

	var expired <-chan time.Time

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		expired = timer.C
	}

	select {
	case err := <-result:
		if err != nil {
			log.Warn("Operation failed", "error", err)

			return err
		}

		log.Debug("Operation succeeded")

		return nil

	case <-c.done:
		// A result may have raced the stop; prefer it.
		select {
		case err := <-result:
			return err
		default:
		}

		log.Debug("Controller stopped during operation")

		return c.stoppedErr()

	case <-expired:
		log.Warn("Operation timed out", "timeout", timeout)

		return fmt.Errorf("%s: %w after %s", op, errors.ErrOperationTimeout, timeout)

	case <-ctx.Done():
		log.Debug("Operation cancelled", "error", ctx.Err())

		return ctx.Err()
	}
}

func (c *Controller) register(op string) (string, error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for _, p := range c.pending {
		if p.op == op {
			return "", fmt.Errorf("%s: %w", op, errors.ErrOperationInProgress)
		}
	}

	id := c.generateOperationID()
	c.pending[id] = &pendingOperation{op: op, started: time.Now()}

	return id, nil
}

func (c *Controller) unregister(id string) {
	c.pendingMu.Lock()
	p, ok := c.pending[id]
	delete(c.pending, id)
	c.pendingMu.Unlock()

	if ok {
		c.log.Debug("Operation finished", "op", p.op, "op_id", id, "elapsed", time.Since(p.started))
	}
}

func (c *Controller) stoppedErr() error {
	if err := c.FatalError(); err != nil {
		return err
	}

	return errors.ErrProcessExited
}

// observe logs error lines that no pending operation will consume.
func (c *Controller) observe(ev event.Event) {
	if ev.Kind != event.KindError || c.Pending() > 0 {
		return
	}

	c.log.Debug("Error output with no pending operation", "seq", ev.Seq, "line", ev.Text())
}

// generateOperationID creates a unique operation ID using ULID.
func (c *Controller) generateOperationID() string {
	return ulid.Make().String()
}
