package headlessmc

import (
	"context"
	"log/slog"

	internalmcp "github.com/wagiedev/headlessmc-go/internal/mcp"
)

// MCPServerName is the implementation name reported to MCP clients.
const MCPServerName = "headlessmc"

// Compile-time verification that Client can back the MCP tools.
var _ internalmcp.Launcher = (Client)(nil)

// ServeMCP exposes a started client as MCP tools on stdin/stdout.
//
// The tools are login, launch, download, fabric, forge and quit. Ordinary
// launcher failures are reported as tool errors; a fatal failure ends the
// call with an error. ServeMCP returns when ctx is done or the peer
// disconnects.
func ServeMCP(ctx context.Context, log *slog.Logger, client Client, version string) error {
	return internalmcp.NewServer(log, MCPServerName, version, client).Run(ctx)
}
