package headlessmc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name       string
		cmd        Command
		positional []string
		want       string
	}{
		{name: "login", cmd: Login{}, want: "login"},
		{name: "login with user", cmd: Login{Username: "Steve"}, want: "login --username Steve"},
		{name: "launch", cmd: Launch{Version: "1.8.9", NoOut: true, Retries: 2}, want: "launch 1.8.9 -noout --retries 2"},
		{name: "forge", cmd: Forge{Refresh: true, Version: "1.12.2"}, want: "forge -refresh --version 1.12.2"},
		{name: "quit", cmd: Quit{}, want: "quit"},
		{name: "raw", cmd: RawCommand{Command: "help"}, positional: []string{"launch"}, want: "help launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeCommand(tt.cmd, tt.positional...))
		})
	}
}

func TestEventKind_String(t *testing.T) {
	require.Equal(t, "output", EventOutput.String())
	require.Equal(t, "error", EventError.String())
}
