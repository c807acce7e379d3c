package protocol

import (
	"strings"
	"unicode"

	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/event"
)

// Output markers the launcher prints while handling login and launch.
const (
	URLMarker      = "https://"
	LoggedInMarker = "Logged into"
	CreatedMarker  = "Created:"
	// LaunchFailureMarker is deliberately looser than event.ErrorMarker.
	LaunchFailureMarker = "Exception"
)

// MaxUnrelatedLoginLines is how many lines matching no login marker are
// tolerated before a login is failed.
const MaxUnrelatedLoginLines = 2

// Machine consumes launcher output for one pending operation.
//
// Handle is called on the publisher goroutine for every event until it
// reports done. Err is the operation's result once done.
type Machine interface {
	Handle(ev event.Event) (done bool)
	Err() error
}

// LoginState is the state of a LoginMachine.
type LoginState int

const (
	LoginAwaitingFirstSignal LoginState = iota
	LoginPrompted
	LoginSucceeded
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginAwaitingFirstSignal:
		return "awaiting_first_signal"
	case LoginPrompted:
		return "prompted"
	case LoginSucceeded:
		return "succeeded"
	case LoginFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoginMachine tracks a login through its prompt to success or failure.
type LoginMachine struct {
	prompt    func(event.Prompt)
	state     LoginState
	unrelated int
	err       error
}

// Compile-time verification that the machines implement Machine.
var (
	_ Machine = (*LoginMachine)(nil)
	_ Machine = (*LaunchMachine)(nil)
)

// NewLoginMachine creates a LoginMachine. prompt receives the login URL,
// once per prompt line; it may be nil.
func NewLoginMachine(prompt func(event.Prompt)) *LoginMachine {
	return &LoginMachine{prompt: prompt}
}

// State returns the current state.
func (m *LoginMachine) State() LoginState {
	return m.state
}

// Handle advances the login by one event.
func (m *LoginMachine) Handle(ev event.Event) bool {
	if m.terminal() {
		return true
	}

	text := ev.Text()

	switch {
	case ev.Kind == event.KindError:
		m.fail(&errors.OperationError{Op: "login", Payload: text})

	case strings.Contains(text, URLMarker):
		m.state = LoginPrompted

		if m.prompt != nil {
			m.prompt(event.Prompt{URL: extractURL(text)})
		}

	case strings.Contains(text, LoggedInMarker):
		m.state = LoginSucceeded

	default:
		m.unrelated++

		if m.unrelated > MaxUnrelatedLoginLines {
			m.fail(&errors.UnexpectedOutputError{Op: "login", Payload: text, Count: m.unrelated})
		}
	}

	return m.terminal()
}

// Err returns the failure, or nil on success or while pending.
func (m *LoginMachine) Err() error {
	return m.err
}

func (m *LoginMachine) fail(err error) {
	m.state = LoginFailed
	m.err = err
}

func (m *LoginMachine) terminal() bool {
	return m.state == LoginSucceeded || m.state == LoginFailed
}

// extractURL returns the text from URLMarker up to the next whitespace.
func extractURL(text string) string {
	start := strings.Index(text, URLMarker)
	if start < 0 {
		return ""
	}

	url := text[start:]
	if end := strings.IndexFunc(url, unicode.IsSpace); end >= 0 {
		url = url[:end]
	}

	return url
}

// Session is the supervisor state a launch updates.
type Session interface {
	SetInteractive(active bool)
}

// LaunchMachine waits for the launcher to report a created game or an
// exception. Every other line is ignored.
type LaunchMachine struct {
	session Session
	done    bool
	err     error
}

// NewLaunchMachine creates a LaunchMachine that marks session interactive
// on success.
func NewLaunchMachine(session Session) *LaunchMachine {
	return &LaunchMachine{session: session}
}

// Handle advances the launch by one event.
func (m *LaunchMachine) Handle(ev event.Event) bool {
	if m.done {
		return true
	}

	text := ev.Text()

	switch {
	case strings.Contains(text, LaunchFailureMarker):
		m.done = true
		m.err = &errors.FatalError{Err: &errors.OperationError{Op: "launch", Payload: text}}

	case strings.Contains(text, CreatedMarker):
		m.done = true

		if m.session != nil {
			m.session.SetInteractive(true)
		}
	}

	return m.done
}

// Err returns the failure, always a FatalError, or nil.
func (m *LaunchMachine) Err() error {
	return m.err
}
