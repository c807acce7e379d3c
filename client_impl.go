package headlessmc

import (
	"context"

	"github.com/wagiedev/headlessmc-go/internal/client"
	"github.com/wagiedev/headlessmc-go/internal/config"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl() Client {
	return &clientWrapper{impl: client.New()}
}

func (c *clientWrapper) Start(ctx context.Context, opts ...Option) error {
	return c.impl.Start(ctx, applyOptionsToConfig(opts))
}

func (c *clientWrapper) Login(ctx context.Context, username string) error {
	return c.impl.Login(ctx, username)
}

func (c *clientWrapper) Launch(ctx context.Context, cmd Launch) error {
	return c.impl.Launch(ctx, cmd)
}

func (c *clientWrapper) Fabric(ctx context.Context, cmd Fabric) error {
	return c.impl.Fabric(ctx, cmd)
}

func (c *clientWrapper) Forge(ctx context.Context, cmd Forge) error {
	return c.impl.Forge(ctx, cmd)
}

func (c *clientWrapper) Download(ctx context.Context, cmd Download) error {
	return c.impl.Download(ctx, cmd)
}

func (c *clientWrapper) Send(ctx context.Context, cmd Command, positional ...string) error {
	return c.impl.Send(ctx, cmd, positional...)
}

func (c *clientWrapper) Quit(ctx context.Context) error {
	return c.impl.Quit(ctx)
}

func (c *clientWrapper) Subscribe(handler EventHandler) func() {
	return c.impl.Subscribe(handler)
}

func (c *clientWrapper) Done() <-chan struct{} {
	return c.impl.Done()
}

func (c *clientWrapper) Err() error {
	return c.impl.Err()
}

func (c *clientWrapper) Wait(ctx context.Context) error {
	return c.impl.Wait(ctx)
}

func (c *clientWrapper) Pid() int {
	return c.impl.Pid()
}

func (c *clientWrapper) Interactive() bool {
	return c.impl.Interactive()
}

func (c *clientWrapper) Close() error {
	return c.impl.Close()
}

// applyOptionsToConfig converts public options to internal config.Options.
// Options is a type alias to config.Options, so no conversion is needed.
func applyOptionsToConfig(opts []Option) *config.Options {
	return applyOptions(opts)
}
