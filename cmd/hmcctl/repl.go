package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	headlessmc "github.com/wagiedev/headlessmc-go"
	"github.com/wagiedev/headlessmc-go/internal/command"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Forward stdin lines to the launcher",
	Long: `Forward each stdin line to the launcher. "login" and "launch" lines wait
for the launcher's answer; "quit" and end of input stop the launcher.
Everything else is written as is.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runClient(cmd, false, func(ctx context.Context, c headlessmc.Client, _ *slog.Logger) error {
			return repl(ctx, cmd, c)
		})
	},
}

func repl(ctx context.Context, cmd *cobra.Command, c headlessmc.Client) error {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return awaitExit(ctx, c)

		case <-c.Done():
			return c.Err()

		case line, ok := <-lines:
			if !ok {
				return quit(ctx, c)
			}

			done, err := dispatch(ctx, c, line)
			if err != nil {
				if headlessmc.IsFatal(err) {
					return err
				}

				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}

			if done {
				return nil
			}
		}
	}
}

// dispatch sends one repl line. It reports done after a quit.
func dispatch(ctx context.Context, c headlessmc.Client, line string) (done bool, err error) {
	name, positional, opts := command.Parse(line)

	switch name {
	case "":
		return false, nil

	case command.NameQuit:
		return true, quit(ctx, c)

	case command.NameLogin:
		username, _ := opts.Lookup("username")
		if len(positional) > 0 {
			username = positional[0]
		}

		s, _ := username.(string)

		return false, c.Login(ctx, s)

	case command.NameLaunch:
		launch, err := launchFromLine(positional, opts)
		if err != nil {
			return false, err
		}

		return false, c.Launch(ctx, launch)

	default:
		return false, c.Send(ctx, command.Raw{Command: name, Args: positional, Opts: opts})
	}
}

// launchFromLine rebuilds a Launch record from a parsed launch line.
func launchFromLine(positional []string, opts command.Options) (command.Launch, error) {
	var launch command.Launch

	switch len(positional) {
	case 0:
	case 1:
		launch.Version = positional[0]
	default:
		return launch, fmt.Errorf("launch takes one version, got %q", strings.Join(positional, " "))
	}

	flags := map[string]*bool{
		"id":        &launch.ID,
		"commands":  &launch.Commands,
		"lwjgl":     &launch.LWJGL,
		"inmemory":  &launch.InMemory,
		"jndi":      &launch.JNDI,
		"lookup":    &launch.Lookup,
		"paulscode": &launch.PaulsCode,
		"noout":     &launch.NoOut,
		"quit":      &launch.Quit,
		"offline":   &launch.Offline,
	}

	for _, opt := range opts {
		name := strings.ToLower(opt.Name)

		if flag, ok := flags[name]; ok {
			v, isBool := opt.Value.(bool)
			if !isBool {
				return launch, fmt.Errorf("option -%s takes no value", name)
			}

			*flag = v

			continue
		}

		v, isString := opt.Value.(string)

		switch name {
		case "jvm", "retries":
			if !isString {
				return launch, fmt.Errorf("option --%s needs a value", name)
			}
		default:
			return launch, fmt.Errorf("unknown launch option %q", opt.Name)
		}

		if name == "jvm" {
			launch.JVM = v

			continue
		}

		retries, err := strconv.Atoi(v)
		if err != nil {
			return launch, fmt.Errorf("option --retries: %w", err)
		}

		launch.Retries = retries
	}

	return launch, nil
}
