package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	headlessmc "github.com/wagiedev/headlessmc-go"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log into a Minecraft account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var username string
		if len(args) == 1 {
			username = args[0]
		}

		return runClient(cmd, false, func(ctx context.Context, c headlessmc.Client, _ *slog.Logger) error {
			if err := c.Login(ctx, username); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Logged in")

			return quit(ctx, c)
		})
	},
}

var launchFlags headlessmc.Launch

var launchCmd = &cobra.Command{
	Use:   "launch <version>",
	Short: "Launch a game version and stay attached until it exits",
	Long: `Launch a game version. hmcctl stays attached, printing launcher output,
until the game exits or it is interrupted; an interrupt kills the game and
the launcher.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launch := launchFlags
		launch.Version = args[0]

		return runClient(cmd, false, func(ctx context.Context, c headlessmc.Client, _ *slog.Logger) error {
			if err := c.Launch(ctx, launch); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Launched %s\n", launch.Version)

			return awaitExit(ctx, c)
		})
	},
}

var (
	downloadFlags headlessmc.Download
	fabricFlags   headlessmc.Fabric
	forgeFlags    headlessmc.Forge
	lingerFor     time.Duration
)

var downloadCmd = &cobra.Command{
	Use:   "download <version>",
	Short: "Download a game version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		download := downloadFlags
		download.Version = args[0]

		return sendAndLinger(cmd, func(ctx context.Context, c headlessmc.Client) error {
			return c.Download(ctx, download)
		})
	},
}

var fabricCmd = &cobra.Command{
	Use:   "fabric",
	Short: "Install the Fabric loader",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return sendAndLinger(cmd, func(ctx context.Context, c headlessmc.Client) error {
			return c.Fabric(ctx, fabricFlags)
		})
	},
}

var forgeCmd = &cobra.Command{
	Use:   "forge",
	Short: "Install or list Forge versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return sendAndLinger(cmd, func(ctx context.Context, c headlessmc.Client) error {
			return c.Forge(ctx, forgeFlags)
		})
	},
}

// sendAndLinger writes a command the launcher does not confirm, streams
// output for the linger period, then quits.
func sendAndLinger(cmd *cobra.Command, send func(context.Context, headlessmc.Client) error) error {
	return runClient(cmd, false, func(ctx context.Context, c headlessmc.Client, _ *slog.Logger) error {
		if err := send(ctx, c); err != nil {
			return err
		}

		lingerCtx, cancel := context.WithTimeout(ctx, lingerFor)
		defer cancel()

		return awaitExit(lingerCtx, c)
	})
}

func init() {
	f := launchCmd.Flags()
	f.BoolVar(&launchFlags.Offline, "offline", false, "launch without an account")
	f.BoolVar(&launchFlags.LWJGL, "lwjgl", false, "patch LWJGL for headless rendering")
	f.BoolVar(&launchFlags.InMemory, "inmemory", false, "launch in the launcher's JVM")
	f.BoolVar(&launchFlags.NoOut, "noout", false, "suppress game output")
	f.BoolVar(&launchFlags.Quit, "quit", false, "exit the launcher when the game exits")
	f.BoolVar(&launchFlags.Commands, "commands", false, "enable in-game commands")
	f.BoolVar(&launchFlags.ID, "id", false, "treat the version as a numeric id")
	f.BoolVar(&launchFlags.JNDI, "jndi", false, "apply the JNDI patch")
	f.BoolVar(&launchFlags.Lookup, "lookup", false, "apply the lookup patch")
	f.BoolVar(&launchFlags.PaulsCode, "paulscode", false, "apply the paulscode patch")
	f.StringVar(&launchFlags.JVM, "jvm", "", "extra JVM arguments for the game")
	f.IntVar(&launchFlags.Retries, "retries", 0, "launch retries")

	f = downloadCmd.Flags()
	f.BoolVar(&downloadFlags.Snapshot, "snapshot", false, "version is a snapshot")
	f.BoolVar(&downloadFlags.Release, "release", false, "version is a release")
	f.BoolVar(&downloadFlags.Other, "other", false, "version is neither release nor snapshot")
	f.BoolVar(&downloadFlags.ID, "id", false, "treat the version as a numeric id")

	f = fabricCmd.Flags()
	f.StringVar(&fabricFlags.Version, "version", "", "game version")
	f.StringVar(&fabricFlags.JVM, "jvm", "", "JVM arguments for the installer")
	f.StringVar(&fabricFlags.Java, "java-exe", "", "java executable for the installer")
	f.StringVar(&fabricFlags.UID, "uid", "", "installer uid")
	f.BoolVar(&fabricFlags.InMemory, "inmemory", false, "run the installer in memory")

	f = forgeCmd.Flags()
	f.StringVar(&forgeFlags.Version, "version", "", "game version")
	f.StringVar(&forgeFlags.UID, "uid", "", "forge uid")
	f.BoolVar(&forgeFlags.Refresh, "refresh", false, "refresh the version index")
	f.BoolVar(&forgeFlags.List, "list", false, "list available versions")
	f.BoolVar(&forgeFlags.InMemory, "inmemory", false, "run the installer in memory")

	for _, c := range []*cobra.Command{downloadCmd, fabricCmd, forgeCmd} {
		c.Flags().DurationVar(&lingerFor, "linger", 2*time.Minute, "how long to stream output before quitting")
	}
}
