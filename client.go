package headlessmc

import "context"

// Client supervises one HeadlessMC launcher process.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with NewClient().
//
// Example usage:
//
//	client := headlessmc.NewClient()
//	defer client.Close()
//
//	err := client.Start(ctx,
//	    headlessmc.WithLogger(slog.Default()),
//	    headlessmc.WithJarPath("headlessmc-launcher.jar"),
//	    headlessmc.WithLoginPromptHandler(func(url string) {
//	        fmt.Println("open", url)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Login(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Launch(ctx, headlessmc.Launch{Version: "1.20.4"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	<-client.Done()
type Client interface {
	// Start spawns the launcher. Must be called before any other method.
	// Returns JavaNotFoundError, JarNotFoundError or ConnectionError on failure.
	Start(ctx context.Context, opts ...Option) error

	// Login logs into an account and waits for the launcher to confirm it.
	// A login URL is delivered to the WithLoginPromptHandler callback.
	Login(ctx context.Context, username string) error

	// Launch starts a game and waits until the launcher reports it created.
	// Returns ErrMissingVersion if cmd.Version is empty. An exception during
	// launch is returned as a FatalError.
	Launch(ctx context.Context, cmd Launch) error

	// Fabric asks the launcher to install Fabric without waiting for a result.
	Fabric(ctx context.Context, cmd Fabric) error

	// Forge asks the launcher to install or list Forge without waiting for a result.
	Forge(ctx context.Context, cmd Forge) error

	// Download asks the launcher to download a version without waiting for a result.
	Download(ctx context.Context, cmd Download) error

	// Send writes an arbitrary command line.
	Send(ctx context.Context, cmd Command, positional ...string) error

	// Quit stops the launcher. With a game running the whole process tree
	// is killed; otherwise the launcher is asked to quit.
	Quit(ctx context.Context) error

	// Subscribe registers a handler for every output line. The returned
	// function removes it.
	Subscribe(handler EventHandler) (unsubscribe func())

	// Done is closed when the launcher exits or a fatal error occurs.
	Done() <-chan struct{}

	// Err returns the fatal error, if any.
	Err() error

	// Wait blocks until Done is closed and returns Err.
	Wait(ctx context.Context) error

	// Pid returns the launcher's process ID, or 0 if not started.
	Pid() int

	// Interactive reports whether a launched game is believed running.
	Interactive() bool

	// Close kills the launcher, and any game it started, if still running
	// and releases resources.
	// After Close(), the client cannot be reused. Safe to call multiple times.
	Close() error
}

// NewClient creates a new client.
//
// Call Start() with options to spawn the launcher:
//
//	client := NewClient()
//	err := client.Start(ctx,
//	    WithLogger(slog.Default()),
//	    WithJarPath("headlessmc-launcher.jar"),
//	)
func NewClient() Client {
	return newClientImpl()
}
