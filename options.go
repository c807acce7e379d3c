package headlessmc

import (
	"log/slog"
	"time"

	"github.com/wagiedev/headlessmc-go/internal/config"
	"github.com/wagiedev/headlessmc-go/internal/proctree"
)

// Options configures a Client.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithJarPath sets the path to the launcher jar. Required.
func WithJarPath(path string) Option {
	return func(o *Options) {
		o.JarPath = path
	}
}

// WithJavaPath sets the explicit path to the java executable.
// If not set, JAVA_HOME and then PATH are searched.
func WithJavaPath(path string) Option {
	return func(o *Options) {
		o.JavaPath = path
	}
}

// WithCwd sets the working directory for the launcher process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the launcher process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithJVMArgs sets arguments passed to java before -jar.
func WithJVMArgs(args ...string) Option {
	return func(o *Options) {
		o.JVMArgs = args
	}
}

// WithExtraArgs sets arguments passed to the launcher after the jar.
func WithExtraArgs(args ...string) Option {
	return func(o *Options) {
		o.ExtraArgs = args
	}
}

// WithSkipVersionCheck disables the `java -version` probe at start.
func WithSkipVersionCheck(skip bool) Option {
	return func(o *Options) {
		o.SkipVersionCheck = skip
	}
}

// ===== Operations =====

// WithLaunchTimeout bounds how long Launch waits. Zero (the default) waits
// until the launcher reports success or failure.
func WithLaunchTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.LaunchTimeout = timeout
	}
}

// WithLoginTimeout bounds how long Login waits. Zero means no limit.
func WithLoginTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.LoginTimeout = timeout
	}
}

// WithLockFile holds an exclusive lock on path while the client runs, so
// two supervisors cannot drive the same launcher directory.
func WithLockFile(path string) Option {
	return func(o *Options) {
		o.LockFile = path
	}
}

// ===== Observers =====

// WithOutputHandler sets a callback for every ordinary output line.
// Callbacks run on the relay goroutine and must not block.
func WithOutputHandler(handler func(Event)) Option {
	return func(o *Options) {
		o.OnOutput = handler
	}
}

// WithErrorHandler sets a callback for every line classified as an error.
func WithErrorHandler(handler func(Event)) Option {
	return func(o *Options) {
		o.OnError = handler
	}
}

// WithLoginPromptHandler sets a callback that receives the URL the user
// must visit to complete a login.
func WithLoginPromptHandler(handler func(url string)) Option {
	return func(o *Options) {
		o.OnLoginPrompt = handler
	}
}

// ===== Advanced =====

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
// Use this for testing or alternative launcher hosts.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// WithProcessTree overrides how descendants are found and killed on quit.
// Either argument may be nil to keep the platform default.
func WithProcessTree(locator proctree.Locator, signaler proctree.Signaler) Option {
	return func(o *Options) {
		o.Locator = locator
		o.Signaler = signaler
	}
}
