// Package event classifies launcher output and fans it out to subscribers.
package event

import (
	"bytes"
	"sync"
)

// ErrorMarker is the substring that marks an output line as a failure.
//
// This is a heuristic: any line that merely mentions the marker (an echoed
// file name, a log message quoting an exception) is classified as an error.
// The launcher offers nothing more precise, so the test stays this loose.
const ErrorMarker = "Exception:"

// Kind is the classification of an output event.
type Kind int

const (
	// KindOutput is ordinary output.
	KindOutput Kind = iota
	// KindError is output containing ErrorMarker.
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}

	return "output"
}

// Stream identifies the pipe a line arrived on.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}

	return "stdout"
}

// Event is one classified line of launcher output.
type Event struct {
	Kind    Kind
	Stream  Stream
	Payload []byte
	// Seq is assigned by the Bus in publish order, starting at 1.
	Seq uint64
}

// Text returns the payload as a string.
func (e Event) Text() string {
	return string(e.Payload)
}

// Classify reports whether chunk is an error line.
func Classify(chunk []byte) Kind {
	if bytes.Contains(chunk, []byte(ErrorMarker)) {
		return KindError
	}

	return KindOutput
}

// Prompt is a login-prompt notification carrying the URL the user must open.
type Prompt struct {
	URL string
}

// Handler receives events.
type Handler func(Event)

// PromptHandler receives login-prompt notifications.
type PromptHandler func(Prompt)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Bus is a synchronous publish/subscribe hub.
//
// Publish runs every handler on the caller's goroutine, in subscription
// order, against a snapshot of the subscriber list. A handler may therefore
// unsubscribe itself (or others) while it is being called.
type Bus struct {
	mu      sync.RWMutex
	nextID  uint64
	seq     uint64
	events  []subscriber[Event]
	prompts []subscriber[Prompt]
	closed  bool
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every published event. The returned function
// removes the subscription; calling it more than once is a no-op.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.events = append(b.events, subscriber[Event]{id: id, fn: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.events = remove(b.events, id)
	}
}

// OnPrompt registers h for login-prompt notifications.
func (b *Bus) OnPrompt(h PromptHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.prompts = append(b.prompts, subscriber[Prompt]{id: id, fn: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.prompts = remove(b.prompts, id)
	}
}

// Publish assigns ev the next sequence number and delivers it.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()

		return
	}

	b.seq++
	ev.Seq = b.seq
	snapshot := append([]subscriber[Event](nil), b.events...)

	b.mu.Unlock()

	for _, s := range snapshot {
		if b.subscribed(s.id) {
			s.fn(ev)
		}
	}
}

// Prompt delivers a login-prompt notification.
func (b *Bus) Prompt(p Prompt) {
	b.mu.RLock()

	if b.closed {
		b.mu.RUnlock()

		return
	}

	snapshot := append([]subscriber[Prompt](nil), b.prompts...)

	b.mu.RUnlock()

	for _, s := range snapshot {
		s.fn(p)
	}
}

// Len returns the number of event subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.events)
}

// Close drops every subscriber. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.events = nil
	b.prompts = nil
}

// subscribed reports whether id is still registered, so a handler removed
// earlier in the same delivery round is skipped.
func (b *Bus) subscribed(id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.events {
		if s.id == id {
			return true
		}
	}

	return false
}

func remove[T any](subs []subscriber[T], id uint64) []subscriber[T] {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}

	return subs
}
