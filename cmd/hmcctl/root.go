package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	headlessmc "github.com/wagiedev/headlessmc-go"
	"github.com/wagiedev/headlessmc-go/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const quitTimeout = 15 * time.Second

var (
	configPath string
	javaPath   string
	jarPath    string
	cwd        string
	logLevel   string
	lockFile   string

	// testOptions are appended to every client's options by tests.
	testOptions []headlessmc.Option
)

var rootCmd = &cobra.Command{
	Use:     "hmcctl",
	Short:   "Drive a HeadlessMC launcher",
	Version: Version,
	Long: `hmcctl runs the HeadlessMC launcher jar as a child process and drives it
through its console: log in, launch game versions, install loaders.

Settings can come from flags or from a TOML/YAML file given with --config
or the HEADLESSMC_CONFIG environment variable. Flags win.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (.toml, .yaml or .yml)")
	flags.StringVar(&javaPath, "java", "", "java executable (default: $JAVA_HOME/bin/java, then PATH)")
	flags.StringVar(&jarPath, "jar", "", "HeadlessMC launcher jar")
	flags.StringVar(&cwd, "cwd", "", "working directory for the launcher")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")
	flags.StringVar(&lockFile, "lock", "", "lock file held while the launcher runs")

	rootCmd.AddCommand(loginCmd, launchCmd, downloadCmd, fabricCmd, forgeCmd, replCmd, mcpCmd)
}

// Execute runs the root command and returns an exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra has already printed the error.
		return 1
	}

	return 0
}

// loadSettings merges the config file, if any, into flag-derived options.
func loadSettings(stderr io.Writer) (*slog.Logger, headlessmc.Option, error) {
	var file config.File

	if path := config.ResolvePath(configPath); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}

		file = *loaded
	}

	level := logLevel
	if level == "" {
		level = file.LogLevel
	}

	if level == "" {
		level = "warn"
	}

	logger, err := headlessmc.NewTextLogger(stderr, level)
	if err != nil {
		return nil, nil, err
	}

	opts := &headlessmc.Options{
		JavaPath: javaPath,
		JarPath:  jarPath,
		Cwd:      cwd,
		LockFile: lockFile,
		Logger:   logger,
	}

	if err := file.Apply(opts); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	apply := func(o *headlessmc.Options) {
		*o = *opts
	}

	return logger, apply, nil
}

// runClient starts a client, runs fn, and closes the client. Launcher
// output goes to the command's stdout unless quiet is set.
func runClient(cmd *cobra.Command, quiet bool, fn func(ctx context.Context, c headlessmc.Client, log *slog.Logger) error) error {
	ctx := cmd.Context()

	logger, settings, err := loadSettings(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := []headlessmc.Option{
		settings,
		headlessmc.WithLoginPromptHandler(func(url string) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Open this URL to sign in:", url)
		}),
	}

	if !quiet {
		out := cmd.OutOrStdout()
		opts = append(opts,
			headlessmc.WithOutputHandler(func(ev headlessmc.Event) { fmt.Fprintln(out, ev.Text()) }),
			headlessmc.WithErrorHandler(func(ev headlessmc.Event) { fmt.Fprintln(out, ev.Text()) }),
		)
	}

	opts = append(opts, testOptions...)

	client := headlessmc.NewClient()

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close client", "error", closeErr)
		}
	}()

	if err := client.Start(ctx, opts...); err != nil {
		return err
	}

	if err := fn(ctx, client, logger); err != nil {
		return err
	}

	// A fatal failure that did not surface through fn still fails the run.
	return client.Err()
}

// awaitExit waits until the launcher exits or ctx ends, then makes sure it
// is stopped.
func awaitExit(ctx context.Context, c headlessmc.Client) error {
	select {
	case <-c.Done():
		return c.Err()
	case <-ctx.Done():
	}

	// ctx is already cancelled; quitting needs its own deadline.
	quitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quitTimeout)
	defer cancel()

	return quit(quitCtx, c)
}

// quit stops the launcher, ignoring a launcher that is already gone.
func quit(ctx context.Context, c headlessmc.Client) error {
	err := c.Quit(ctx)
	if err == nil || errors.Is(err, headlessmc.ErrProcessExited) {
		return nil
	}

	return err
}
