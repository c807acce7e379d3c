package mcp

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	mcpgo "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/errors"
)

type fakeLauncher struct {
	mu    sync.Mutex
	calls []any
	err   error
}

func (f *fakeLauncher) record(call any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)

	return f.err
}

func (f *fakeLauncher) Login(_ context.Context, username string) error {
	return f.record(command.Login{Username: username})
}

func (f *fakeLauncher) Launch(_ context.Context, cmd command.Launch) error { return f.record(cmd) }

func (f *fakeLauncher) Download(_ context.Context, cmd command.Download) error {
	return f.record(cmd)
}

func (f *fakeLauncher) Fabric(_ context.Context, cmd command.Fabric) error { return f.record(cmd) }
func (f *fakeLauncher) Forge(_ context.Context, cmd command.Forge) error   { return f.record(cmd) }
func (f *fakeLauncher) Quit(_ context.Context) error                       { return f.record(command.Quit{}) }

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcpgo.TextContent)
	require.True(t, ok, "expected text content")

	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	s := NewServer(nil, "hmcctl", "1.0.0", &fakeLauncher{})

	names := make([]string, 0, 6)
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
		require.NotNil(t, tool.InputSchema)
	}

	require.Equal(t, []string{"download", "fabric", "forge", "launch", "login", "quit"}, names)
}

func TestServer_LaunchTool(t *testing.T) {
	launcher := &fakeLauncher{}
	s := NewServer(nil, "hmcctl", "1.0.0", launcher)

	result, err := s.CallTool(context.Background(), "launch", map[string]any{
		"version": "1.20.4",
		"offline": true,
		"retries": 3,
	})

	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "launched 1.20.4", resultText(t, result))
	require.Equal(t, []any{command.Launch{Version: "1.20.4", Offline: true, Retries: 3}}, launcher.calls)
}

func TestServer_FireAndForgetTools(t *testing.T) {
	launcher := &fakeLauncher{}
	s := NewServer(nil, "hmcctl", "1.0.0", launcher)
	ctx := context.Background()

	_, err := s.CallTool(ctx, "login", map[string]any{"username": "Steve"})
	require.NoError(t, err)
	_, err = s.CallTool(ctx, "download", map[string]any{"version": "1.21", "snapshot": true})
	require.NoError(t, err)
	_, err = s.CallTool(ctx, "fabric", map[string]any{"version": "1.20.4", "inmemory": true})
	require.NoError(t, err)
	_, err = s.CallTool(ctx, "forge", map[string]any{"list": true})
	require.NoError(t, err)
	_, err = s.CallTool(ctx, "quit", nil)
	require.NoError(t, err)

	require.Equal(t, []any{
		command.Login{Username: "Steve"},
		command.Download{Version: "1.21", Snapshot: true},
		command.Fabric{Version: "1.20.4", InMemory: true},
		command.Forge{List: true},
		command.Quit{},
	}, launcher.calls)
}

func TestServer_OperationErrorIsErrorResult(t *testing.T) {
	launcher := &fakeLauncher{err: &errors.OperationError{Op: "login", Payload: "java.io.IOException: offline"}}
	s := NewServer(nil, "hmcctl", "1.0.0", launcher)

	result, err := s.CallTool(context.Background(), "login", map[string]any{})

	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, resultText(t, result), "java.io.IOException: offline")
}

func TestServer_FatalErrorIsReturned(t *testing.T) {
	fatal := &errors.FatalError{Err: &errors.OperationError{Op: "launch", Payload: "Exception: bad version"}}
	s := NewServer(nil, "hmcctl", "1.0.0", &fakeLauncher{err: fatal})

	result, err := s.CallTool(context.Background(), "launch", map[string]any{"version": "0.0"})

	require.Nil(t, result)
	require.True(t, errors.IsFatal(err))

	_, ok := stderrors.AsType[*errors.FatalError](err)
	require.True(t, ok)
}

func TestServer_UnknownTool(t *testing.T) {
	s := NewServer(nil, "hmcctl", "1.0.0", &fakeLauncher{})

	result, err := s.CallTool(context.Background(), "dance", nil)

	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Equal(t, "Tool not found: dance", resultText(t, result))
}

func TestServer_MalformedArguments(t *testing.T) {
	s := NewServer(nil, "hmcctl", "1.0.0", &fakeLauncher{})
	handler := s.tools["login"].handler

	result, err := handler(context.Background(), &mcpgo.CallToolRequest{
		Params: &mcpgo.CallToolParamsRaw{Name: "login", Arguments: []byte("{not json")},
	})

	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestSimpleSchema(t *testing.T) {
	schema := SimpleSchema(map[string]string{
		"version": "string",
		"retries": "int",
		"offline": "bool",
		"args":    "[]string",
	}, "version")

	require.Equal(t, "object", schema.Type)
	require.Equal(t, []string{"version"}, schema.Required)
	require.Equal(t, "string", schema.Properties["version"].Type)
	require.Equal(t, "integer", schema.Properties["retries"].Type)
	require.Equal(t, "boolean", schema.Properties["offline"].Type)
	require.Equal(t, "array", schema.Properties["args"].Type)
	require.Equal(t, "string", schema.Properties["args"].Items.Type)
}

func TestArguments(t *testing.T) {
	args := Arguments{"s": "x", "b": true, "n": float64(4), "wrong": 1.5}

	require.Equal(t, "x", args.String("s"))
	require.Empty(t, args.String("b"))
	require.True(t, args.Bool("b"))
	require.False(t, args.Bool("missing"))
	require.Equal(t, 4, args.Int("n"))
	require.Equal(t, 1, args.Int("wrong"))
	require.Zero(t, args.Int("s"))
}

func TestParseArguments_Empty(t *testing.T) {
	args, err := ParseArguments(nil)
	require.NoError(t, err)
	require.Empty(t, args)

	args, err = ParseArguments(&mcpgo.CallToolRequest{Params: &mcpgo.CallToolParamsRaw{Arguments: []byte("null")}})
	require.NoError(t, err)
	require.NotNil(t, args)
}
