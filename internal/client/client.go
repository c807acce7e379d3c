package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/config"
	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/event"
	"github.com/wagiedev/headlessmc-go/internal/protocol"
	"github.com/wagiedev/headlessmc-go/internal/shutdown"
	"github.com/wagiedev/headlessmc-go/internal/subprocess"
)

// closeKillTimeout bounds the process-tree walk done by Close.
const closeKillTimeout = 5 * time.Second

// Client supervises one launcher process.
type Client struct {
	log        *slog.Logger
	transport  config.Transport
	bus        *event.Bus
	controller *protocol.Controller
	shutdown   *shutdown.Coordinator
	options    *config.Options
	lock       *flock.Flock

	// Fatal error storage
	errMu    sync.RWMutex
	fatalErr error

	// Errgroup for the relay and its watcher
	eg *errgroup.Group

	// Lifecycle management
	mu        sync.Mutex
	done      chan struct{} // Closed on exit or fatal error
	doneOnce  sync.Once
	started   bool
	closed    bool      // Tracks if Close() has been called
	closeOnce sync.Once // Ensures Close() only runs once
}

// New creates a new client.
//
// The launcher is not running after creation. Call Start() with options.
// Subscribe may be called before Start.
func New() *Client {
	return &Client{
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		bus:  event.NewBus(),
		done: make(chan struct{}),
	}
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// setFatalError stores the first fatal error encountered.
func (c *Client) setFatalError(err error) {
	if err == nil {
		return
	}

	c.errMu.Lock()
	defer c.errMu.Unlock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}
}

// Err returns the fatal error, if any. It is nil while the launcher runs
// and after a clean or requested exit.
func (c *Client) Err() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

// ready returns nil if operations may be issued.
func (c *Client) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrClientClosed
	}

	if !c.started {
		return errors.ErrNotStarted
	}

	return nil
}

// Start spawns the launcher and begins relaying its output.
//
// Returns ErrInstanceLocked if another supervisor holds options.LockFile,
// JavaNotFoundError or JarNotFoundError if discovery fails, or
// ConnectionError if the process fails to start.
func (c *Client) Start(ctx context.Context, options *config.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrClientClosed
	}

	if c.started {
		return errors.ErrAlreadyStarted
	}

	// Default to empty options if nil
	if options == nil {
		options = &config.Options{}
	}

	if options.Logger != nil {
		c.log = options.Logger
	}

	c.log = c.log.With("component", "client")
	c.options = options

	if err := c.acquireLock(); err != nil {
		return err
	}

	// Create or use injected transport
	var transport config.Transport

	if options.Transport != nil {
		transport = options.Transport

		c.log.Debug("Using injected custom transport")
	} else {
		transport = subprocess.NewProcess(c.log, options)
	}

	if err := transport.Start(ctx); err != nil {
		c.releaseLock()

		return fmt.Errorf("start launcher: %w", err)
	}

	c.transport = transport
	c.wireObservers()

	c.controller = protocol.NewController(c.log, c.bus, transport, transport, protocol.Config{
		LoginTimeout:  options.LoginTimeout,
		LaunchTimeout: options.LaunchTimeout,
	})

	c.shutdown = shutdown.New(c.log, transport, options.Locator, options.Signaler)

	// The relay must outlive the caller's ctx, which may only bound startup.
	// It ends when the launcher's output streams close.
	var egCtx context.Context

	c.eg, egCtx = errgroup.WithContext(context.Background())

	c.eg.Go(func() error {
		return c.relay(egCtx)
	})

	// The controller stops on a fatal error or when the relay ends.
	c.eg.Go(func() error {
		<-c.controller.Done()

		c.setFatalError(c.controller.FatalError())
		c.closeDone()

		return nil
	})

	c.started = true
	c.log.Info("Client started", "pid", transport.Pid())

	return nil
}

func (c *Client) acquireLock() error {
	if c.options.LockFile == "" {
		return nil
	}

	lock := flock.New(c.options.LockFile)

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock %s: %w", c.options.LockFile, err)
	}

	if !locked {
		return fmt.Errorf("%w: %s", errors.ErrInstanceLocked, c.options.LockFile)
	}

	c.log.Debug("Acquired instance lock", "path", c.options.LockFile)
	c.lock = lock

	return nil
}

func (c *Client) releaseLock() {
	if c.lock == nil {
		return
	}

	if err := c.lock.Unlock(); err != nil {
		c.log.Warn("Failed to release instance lock", "path", c.lock.Path(), "error", err)
	}

	c.lock = nil
}

// wireObservers subscribes the option callbacks to the bus.
func (c *Client) wireObservers() {
	if fn := c.options.OnOutput; fn != nil {
		c.bus.Subscribe(func(ev event.Event) {
			if ev.Kind == event.KindOutput {
				fn(ev)
			}
		})
	}

	if fn := c.options.OnError; fn != nil {
		c.bus.Subscribe(func(ev event.Event) {
			if ev.Kind == event.KindError {
				fn(ev)
			}
		})
	}

	if fn := c.options.OnLoginPrompt; fn != nil {
		c.bus.OnPrompt(func(p event.Prompt) {
			fn(p.URL)
		})
	}
}

// relay is the single publisher: every launcher line reaches the bus here.
func (c *Client) relay(ctx context.Context) error {
	defer c.log.Debug("Relay stopped")
	defer c.controller.Stop()

	events, errs := c.transport.ReadEvents(ctx)

	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil

				continue
			}

			c.bus.Publish(ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil

				continue
			}

			if errors.IsFatal(err) {
				c.log.Error("Launcher failed", "error", err)
				c.setFatalError(err)
				c.controller.SetFatalError(err)

				continue
			}

			c.log.Warn("Launcher read error", "error", err)
		}
	}

	return nil
}

// Login logs into an account and waits for the launcher to confirm it.
//
// If the launcher prints a URL the user must visit, it is delivered to the
// login-prompt handler and the wait continues.
func (c *Client) Login(ctx context.Context, username string) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.log.Info("Logging in", "username", username)

	return c.controller.Login(ctx, command.Login{Username: username})
}

// Launch starts a game and waits until the launcher reports it created.
//
// An exception during launch is fatal: Done is closed and Err reports it.
func (c *Client) Launch(ctx context.Context, cmd command.Launch) error {
	if err := c.ready(); err != nil {
		return err
	}

	c.log.Info("Launching", "version", cmd.Version)

	return c.controller.Launch(ctx, cmd)
}

// Fabric asks the launcher to install Fabric. It does not wait for a result.
func (c *Client) Fabric(ctx context.Context, cmd command.Fabric) error {
	return c.Send(ctx, cmd)
}

// Forge asks the launcher to install or list Forge. It does not wait for a result.
func (c *Client) Forge(ctx context.Context, cmd command.Forge) error {
	return c.Send(ctx, cmd)
}

// Download asks the launcher to download a version. It does not wait for a result.
func (c *Client) Download(ctx context.Context, cmd command.Download) error {
	return c.Send(ctx, cmd)
}

// Send writes an arbitrary command line.
func (c *Client) Send(ctx context.Context, cmd command.Command, positional ...string) error {
	if err := c.ready(); err != nil {
		return err
	}

	return c.controller.Send(ctx, cmd, positional...)
}

// Quit stops the launcher. A launcher with a running game is killed along
// with all of its descendants; otherwise it is asked to quit.
func (c *Client) Quit(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}

	return c.shutdown.Quit(ctx)
}

// Subscribe registers h for every output event. The returned function
// removes it.
func (c *Client) Subscribe(h event.Handler) (unsubscribe func()) {
	return c.bus.Subscribe(h)
}

// Done returns a channel closed when the launcher has exited and its
// output has been delivered, or earlier when a fatal error occurs.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until Done is closed and returns Err.
func (c *Client) Wait(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}

	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pid returns the launcher's process ID, or 0 if not started.
func (c *Client) Pid() int {
	if c.ready() != nil {
		return 0
	}

	return c.transport.Pid()
}

// Interactive reports whether a launched game is believed running.
func (c *Client) Interactive() bool {
	if c.ready() != nil {
		return false
	}

	return c.transport.Interactive()
}

// Close kills the launcher if it is still running and releases resources.
// A running game is killed along with it.
//
// After Close(), the client cannot be reused - create a new client with New().
// This method is safe to call multiple times.
func (c *Client) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		wasStarted := c.started
		c.mu.Unlock()

		if !wasStarted {
			c.bus.Close()

			return
		}

		c.log.Info("Closing client")

		c.transport.MarkClosing()

		// A launched game is a descendant of the launcher and would survive
		// a kill of the launcher alone.
		if c.transport.Running() && c.transport.Interactive() {
			ctx, cancel := context.WithTimeout(context.Background(), closeKillTimeout)

			if err := c.shutdown.Quit(ctx); err != nil {
				c.log.Warn("Failed to kill launcher process tree", "error", err)
			}

			cancel()
		}

		closeErr = c.transport.Close()

		if err := c.eg.Wait(); err != nil && closeErr == nil {
			closeErr = err
		}

		c.bus.Close()
		c.releaseLock()

		c.log.Info("Client closed")
	})

	return closeErr
}
