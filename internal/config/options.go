package config

import (
	"log/slog"
	"time"

	"github.com/wagiedev/headlessmc-go/internal/event"
	"github.com/wagiedev/headlessmc-go/internal/proctree"
)

// Options configures the launcher supervisor.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// JavaPath is the explicit path to the java executable.
	// If empty, JAVA_HOME and then PATH are searched.
	JavaPath string

	// JarPath is the path to the launcher jar. Required.
	JarPath string

	// Cwd sets the working directory for the launcher process.
	Cwd string

	// Env provides additional environment variables for the launcher process.
	Env map[string]string

	// JVMArgs are passed to java before -jar.
	JVMArgs []string

	// ExtraArgs are passed to the launcher after the jar path.
	ExtraArgs []string

	// SkipVersionCheck skips the `java -version` probe during start.
	SkipVersionCheck bool

	// LaunchTimeout bounds how long Launch waits for the game to start.
	// Zero waits until the launcher reports success or failure.
	LaunchTimeout time.Duration

	// LoginTimeout bounds how long Login waits. Zero means no time limit;
	// the unrelated-line cutoff still applies.
	LoginTimeout time.Duration

	// LockFile, if set, is held with an exclusive file lock for the
	// lifetime of the client so two supervisors cannot drive the same
	// launcher directory.
	LockFile string

	// OnOutput is called for every ordinary output line.
	OnOutput func(event.Event)

	// OnError is called for every line classified as an error.
	OnError func(event.Event)

	// OnLoginPrompt is called with the URL the user must visit to log in.
	OnLoginPrompt func(url string)

	// Transport overrides the default subprocess transport.
	Transport Transport

	// Locator overrides the platform process-tree locator used on quit.
	Locator proctree.Locator

	// Signaler overrides the platform signaler used on quit.
	Signaler proctree.Signaler
}
