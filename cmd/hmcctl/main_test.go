package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	headlessmc "github.com/wagiedev/headlessmc-go"
	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/event"
	"github.com/wagiedev/headlessmc-go/internal/proctree"
)

// scriptedLauncher answers known lines with canned output.
type scriptedLauncher struct {
	mu          sync.Mutex
	exited      bool
	lines       []string
	reply       map[string][]string
	events      chan event.Event
	errs        chan error
	interactive atomic.Bool
}

func newScriptedLauncher(reply map[string][]string) *scriptedLauncher {
	return &scriptedLauncher{
		reply:  reply,
		events: make(chan event.Event, 64),
		errs:   make(chan error),
	}
}

func (s *scriptedLauncher) Start(context.Context) error { return nil }

func (s *scriptedLauncher) ReadEvents(context.Context) (<-chan event.Event, <-chan error) {
	return s.events, s.errs
}

func (s *scriptedLauncher) SendLine(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exited {
		return headlessmc.ErrProcessExited
	}

	s.lines = append(s.lines, line)

	for _, text := range s.reply[line] {
		payload := []byte(text)
		s.events <- event.Event{Kind: event.Classify(payload), Payload: payload}
	}

	return nil
}

func (s *scriptedLauncher) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.lines...)
}

func (s *scriptedLauncher) Pid() int { return 777 }

func (s *scriptedLauncher) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.exited
}

func (s *scriptedLauncher) Interactive() bool           { return s.interactive.Load() }
func (s *scriptedLauncher) SetInteractive(active bool) { s.interactive.Store(active) }
func (s *scriptedLauncher) MarkClosing()                {}

func (s *scriptedLauncher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exited {
		s.exited = true
		close(s.events)
		close(s.errs)
	}

	return nil
}

type killRecorder struct {
	mu     sync.Mutex
	killed []int
}

func (k *killRecorder) Kill(pid int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.killed = append(k.killed, pid)

	return nil
}

func resetFlags(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		configPath, javaPath, jarPath, cwd, logLevel, lockFile = "", "", "", "", "", ""
		testOptions = nil
	})
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "hmc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
jar = "/srv/hmc/headlessmc-launcher.jar"
java = "/opt/jdk/bin/java"
jvm_args = ["-Xmx1G"]
launch_timeout = "5m"
log_level = "debug"
`), 0o600))

	configPath = path
	jarPath = "/override.jar"

	logger, apply, err := loadSettings(io.Discard)
	require.NoError(t, err)
	require.True(t, logger.Enabled(context.Background(), -4), "debug level from the file")

	var opts headlessmc.Options
	apply(&opts)

	require.Equal(t, "/override.jar", opts.JarPath, "flags win over the file")
	require.Equal(t, "/opt/jdk/bin/java", opts.JavaPath)
	require.Equal(t, []string{"-Xmx1G"}, opts.JVMArgs)
	require.Equal(t, 5*time.Minute, opts.LaunchTimeout)
	require.Same(t, logger, opts.Logger)
}

func TestLoadSettings_DefaultLevelIsWarn(t *testing.T) {
	resetFlags(t)
	t.Setenv("HEADLESSMC_CONFIG", "")

	logger, _, err := loadSettings(io.Discard)
	require.NoError(t, err)
	require.False(t, logger.Enabled(context.Background(), 0), "info is below the default level")
	require.True(t, logger.Enabled(context.Background(), 4))
}

func TestLoadSettings_Errors(t *testing.T) {
	resetFlags(t)

	logLevel = "chatty"

	_, _, err := loadSettings(io.Discard)
	require.Error(t, err)

	logLevel = ""
	configPath = filepath.Join(t.TempDir(), "hmc.ini")
	require.NoError(t, os.WriteFile(configPath, nil, 0o600))

	_, _, err = loadSettings(io.Discard)
	require.ErrorContains(t, err, "unsupported config format")
}

func TestLaunchFromLine(t *testing.T) {
	name, positional, opts := command.Parse("launch 1.20.4 -offline -lwjgl --jvm -Xmx2G --retries 3")
	require.Equal(t, command.NameLaunch, name)

	launch, err := launchFromLine(positional, opts)
	require.NoError(t, err)

	require.Equal(t, command.Launch{
		Version: "1.20.4",
		Offline: true,
		LWJGL:   true,
		JVM:     "-Xmx2G",
		Retries: 3,
	}, launch)
	require.Equal(t, "launch 1.20.4 -lwjgl -offline --jvm -Xmx2G --retries 3", command.Encode(launch))
}

func TestLaunchFromLine_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "bad retries", line: "launch 1.20.4 --retries three", want: "--retries"},
		{name: "unknown option", line: "launch 1.20.4 -fast", want: "unknown launch option"},
		{name: "extra positional", line: "launch 1.20.4 1.21", want: "one version"},
		{name: "flag with value", line: "launch 1.20.4 --offline yes", want: "takes no value"},
		{name: "value without value", line: "launch 1.20.4 -jvm", want: "needs a value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, positional, opts := command.Parse(tt.line)

			_, err := launchFromLine(positional, opts)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRepl_ForwardsLinesAndKillsGameOnQuit(t *testing.T) {
	resetFlags(t)
	t.Setenv("HEADLESSMC_CONFIG", "")

	launcher := newScriptedLauncher(map[string][]string{
		"versions":               {"1.20.4", "1.21"},
		"launch 1.20.4 -offline": {"Created: Minecraft 1.20.4"},
	})
	signaler := &killRecorder{}
	locator := proctree.TableFunc(func(context.Context) (map[int]int, error) {
		return map[int]int{778: 777}, nil
	})

	testOptions = []headlessmc.Option{
		headlessmc.WithTransport(launcher),
		headlessmc.WithProcessTree(locator, signaler),
	}

	var out bytes.Buffer

	rootCmd.SetArgs([]string{"repl"})
	rootCmd.SetIn(strings.NewReader("versions\n\nlaunch 1.20.4 -offline\nquit\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, rootCmd.ExecuteContext(ctx))

	require.Equal(t, []string{"versions", "launch 1.20.4 -offline"}, launcher.sent())
	require.Equal(t, []int{778, 777}, signaler.killed)
	require.Contains(t, out.String(), "Created: Minecraft 1.20.4")
}
