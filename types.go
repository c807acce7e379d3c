package headlessmc

import (
	"github.com/wagiedev/headlessmc-go/internal/command"
	"github.com/wagiedev/headlessmc-go/internal/event"
)

// ===== Commands =====

// Command is a launcher command line.
type Command = command.Command

// CommandOption is one flag or valued option of a command.
type CommandOption = command.Option

// CommandOptions is an ordered list of command options.
type CommandOptions = command.Options

// Login logs into an account.
type Login = command.Login

// Launch starts a game version.
type Launch = command.Launch

// Fabric installs the Fabric loader.
type Fabric = command.Fabric

// Forge installs or lists Forge.
type Forge = command.Forge

// Download fetches a game version.
type Download = command.Download

// Quit asks the launcher to exit.
type Quit = command.Quit

// RawCommand is an arbitrary command line.
type RawCommand = command.Raw

// EncodeCommand renders cmd as the line written to the launcher.
func EncodeCommand(cmd Command, positional ...string) string {
	return command.Encode(cmd, positional...)
}

// ===== Events =====

// Event is one classified line of launcher output.
type Event = event.Event

// EventKind classifies an Event.
type EventKind = event.Kind

// EventHandler receives events.
type EventHandler = event.Handler

const (
	// EventOutput is ordinary output.
	EventOutput = event.KindOutput

	// EventError is output containing the exception marker.
	EventError = event.KindError
)
