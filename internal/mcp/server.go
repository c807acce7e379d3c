package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/errors"
)

// Launcher is the subset of a started client the tools drive.
type Launcher interface {
	Login(ctx context.Context, username string) error
	Launch(ctx context.Context, cmd command.Launch) error
	Download(ctx context.Context, cmd command.Download) error
	Fabric(ctx context.Context, cmd command.Fabric) error
	Forge(ctx context.Context, cmd command.Forge) error
	Quit(ctx context.Context) error
}

// Server exposes a Launcher as MCP tools.
//
// Tools are registered on an official SDK server for transport use and kept
// in a local registry so they can also be invoked directly.
type Server struct {
	log      *slog.Logger
	launcher Launcher
	server   *mcp.Server

	mu    sync.RWMutex
	tools map[string]*registeredTool
}

type registeredTool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewServer creates a server with the launcher tools registered.
func NewServer(log *slog.Logger, name, version string, launcher Launcher) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		log:      log.With("component", "mcp"),
		launcher: launcher,
		server:   mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		tools:    make(map[string]*registeredTool, 8),
	}

	s.registerTools()

	return s
}

// AddTool registers a tool with the server.
func (s *Server) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[tool.Name] = &registeredTool{tool: tool, handler: handler}
	s.server.AddTool(tool, handler)
}

// ListTools returns the registered tools sorted by name.
func (s *Server) ListTools() []*mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]*mcp.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t.tool)
	}

	slices.SortFunc(tools, func(a, b *mcp.Tool) int {
		return strings.Compare(a.Name, b.Name)
	})

	return tools
}

// CallTool invokes a registered tool directly.
//
// An unknown tool yields an error result. A Go error is returned only when
// the handler reports one, which happens for fatal launcher failures.
func (s *Server) CallTool(ctx context.Context, name string, input map[string]any) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return ErrorResult("Tool not found: " + name), nil
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return ErrorResult("Failed to marshal input: " + err.Error()), nil //nolint:nilerr // encoded in the result
	}

	return t.handler(ctx, &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: name, Arguments: raw},
	})
}

// Run serves the tools on stdin/stdout until ctx is done or the peer
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Serving MCP tools on stdio")

	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.AddTool(
		NewTool("login", "Log into a Minecraft account. A device-code URL, if any, is reported to the supervisor.",
			SimpleSchema(map[string]string{"username": "string"})),
		s.handle("login", func(ctx context.Context, args Arguments) (string, error) {
			return "logged in", s.launcher.Login(ctx, args.String("username"))
		}),
	)

	s.AddTool(
		NewTool("launch", "Launch a game version and wait until it is created.",
			SimpleSchema(map[string]string{
				"version":  "string",
				"offline":  "bool",
				"lwjgl":    "bool",
				"inmemory": "bool",
				"noout":    "bool",
				"quit":     "bool",
				"jvm":      "string",
				"retries":  "int",
			}, "version")),
		s.handle("launch", func(ctx context.Context, args Arguments) (string, error) {
			cmd := command.Launch{
				Version:  args.String("version"),
				Offline:  args.Bool("offline"),
				LWJGL:    args.Bool("lwjgl"),
				InMemory: args.Bool("inmemory"),
				NoOut:    args.Bool("noout"),
				Quit:     args.Bool("quit"),
				JVM:      args.String("jvm"),
				Retries:  args.Int("retries"),
			}

			return "launched " + cmd.Version, s.launcher.Launch(ctx, cmd)
		}),
	)

	s.AddTool(
		NewTool("download", "Ask the launcher to download a game version.",
			SimpleSchema(map[string]string{
				"version":  "string",
				"snapshot": "bool",
				"release":  "bool",
				"other":    "bool",
			})),
		s.handle("download", func(ctx context.Context, args Arguments) (string, error) {
			return "download requested", s.launcher.Download(ctx, command.Download{
				Version:  args.String("version"),
				Snapshot: args.Bool("snapshot"),
				Release:  args.Bool("release"),
				Other:    args.Bool("other"),
			})
		}),
	)

	s.AddTool(
		NewTool("fabric", "Ask the launcher to install the Fabric loader.",
			SimpleSchema(map[string]string{
				"version":  "string",
				"jvm":      "string",
				"java":     "string",
				"uid":      "string",
				"inmemory": "bool",
			})),
		s.handle("fabric", func(ctx context.Context, args Arguments) (string, error) {
			return "fabric install requested", s.launcher.Fabric(ctx, command.Fabric{
				Version:  args.String("version"),
				JVM:      args.String("jvm"),
				Java:     args.String("java"),
				UID:      args.String("uid"),
				InMemory: args.Bool("inmemory"),
			})
		}),
	)

	s.AddTool(
		NewTool("forge", "Ask the launcher to install or list Forge versions.",
			SimpleSchema(map[string]string{
				"version":  "string",
				"uid":      "string",
				"refresh":  "bool",
				"list":     "bool",
				"inmemory": "bool",
			})),
		s.handle("forge", func(ctx context.Context, args Arguments) (string, error) {
			return "forge request sent", s.launcher.Forge(ctx, command.Forge{
				Version:  args.String("version"),
				UID:      args.String("uid"),
				Refresh:  args.Bool("refresh"),
				List:     args.Bool("list"),
				InMemory: args.Bool("inmemory"),
			})
		}),
	)

	s.AddTool(
		NewTool("quit", "Stop the launcher and any game it started.", SimpleSchema(nil)),
		s.handle("quit", func(ctx context.Context, _ Arguments) (string, error) {
			return "quit", s.launcher.Quit(ctx)
		}),
	)
}

// handle adapts fn to a tool handler. Ordinary failures become error
// results; fatal ones are returned so the transport reports them.
func (s *Server) handle(name string, fn func(context.Context, Arguments) (string, error)) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(fmt.Sprintf("failed to parse arguments: %v", err)), nil
		}

		s.log.Debug("Tool called", "tool", name)

		text, err := fn(ctx, args)
		if err == nil {
			return TextResult(text), nil
		}

		if errors.IsFatal(err) {
			s.log.Error("Tool hit a fatal launcher error", "tool", name, "error", err)

			return nil, fmt.Errorf("%s: %w", name, err)
		}

		s.log.Warn("Tool failed", "tool", name, "error", err)

		return ErrorResult(err.Error()), nil
	}
}
