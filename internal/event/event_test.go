package event

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		expected Kind
	}{
		{"plain output", "Downloading assets 42%", KindOutput},
		{"qualified marker", "java.lang.IllegalStateException: no account", KindError},
		{"bare marker", "Exception:", KindError},
		{"unqualified word is not an error", "Exception in thread main", KindOutput},
		{"marker inside echoed file name", "saved crash-Exception:log.txt", KindError},
		{"empty", "", KindOutput},
		{"long noisy payload", strings.Repeat("\x00\xff", 4096) + "Exception:" + strings.Repeat("z", 4096), KindError},
		{"invalid utf8 without marker", "\xc3\x28\xa0\xa1", KindOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify([]byte(tt.chunk)))
		})
	}
}

func TestKindAndStreamString(t *testing.T) {
	require.Equal(t, "error", KindError.String())
	require.Equal(t, "output", KindOutput.String())
	require.Equal(t, "stderr", Stderr.String())
	require.Equal(t, "stdout", Stdout.String())
}

func TestBus_DeliversInOrder(t *testing.T) {
	bus := NewBus()

	var got []string

	bus.Subscribe(func(ev Event) { got = append(got, "a:"+ev.Text()) })
	bus.Subscribe(func(ev Event) { got = append(got, "b:"+ev.Text()) })

	bus.Publish(Event{Payload: []byte("one")})
	bus.Publish(Event{Payload: []byte("two")})

	require.Equal(t, []string{"a:one", "b:one", "a:two", "b:two"}, got)
}

func TestBus_AssignsSequence(t *testing.T) {
	bus := NewBus()

	var seqs []uint64

	bus.Subscribe(func(ev Event) { seqs = append(seqs, ev.Seq) })

	for range 3 {
		bus.Publish(Event{})
	}

	require.Equal(t, []uint64{1, 2, 3}, seqs)
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0

	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})

	bus.Publish(Event{})
	bus.Publish(Event{})

	require.Equal(t, 1, calls)
	require.Equal(t, 0, bus.Len())

	// Idempotent.
	unsubscribe()
}

func TestBus_RemovedPeerSkippedInSameRound(t *testing.T) {
	bus := NewBus()

	var second func()

	secondCalls := 0

	bus.Subscribe(func(Event) { second() })
	second = bus.Subscribe(func(Event) { secondCalls++ })

	bus.Publish(Event{})

	require.Equal(t, 0, secondCalls)
}

func TestBus_Prompt(t *testing.T) {
	bus := NewBus()

	var urls []string

	unsubscribe := bus.OnPrompt(func(p Prompt) { urls = append(urls, p.URL) })

	bus.Prompt(Prompt{URL: "https://example.com/code"})
	unsubscribe()
	bus.Prompt(Prompt{URL: "https://example.com/other"})

	require.Equal(t, []string{"https://example.com/code"}, urls)
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()

	calls := 0

	bus.Subscribe(func(Event) { calls++ })
	bus.Close()
	bus.Publish(Event{})

	unsubscribe := bus.Subscribe(func(Event) { calls++ })
	unsubscribe()
	bus.Publish(Event{})

	require.Equal(t, 0, calls)
	require.Equal(t, 0, bus.Len())
}
