package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	headlessmc "github.com/wagiedev/headlessmc-go"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve launcher tools over MCP on stdio",
	Long: `Start the launcher and expose it as Model Context Protocol tools
(login, launch, download, fabric, forge, quit) on stdin/stdout. Launcher
output is not echoed since stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runClient(cmd, true, func(ctx context.Context, c headlessmc.Client, log *slog.Logger) error {
			if err := headlessmc.ServeMCP(ctx, log, c, Version); err != nil && ctx.Err() == nil {
				return err
			}

			quitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quitTimeout)
			defer cancel()

			return quit(quitCtx, c)
		})
	},
}
