package shutdown

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/proctree"
)

type fakeTarget struct {
	mu          sync.Mutex
	pid         int
	running     bool
	interactive bool
	closing     bool
	lines       []string
	sendErr     error
}

func (f *fakeTarget) Pid() int      { return f.pid }
func (f *fakeTarget) Running() bool { return f.running }
func (f *fakeTarget) Interactive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.interactive
}

func (f *fakeTarget) SetInteractive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.interactive = active
}

func (f *fakeTarget) MarkClosing() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closing = true
}

func (f *fakeTarget) SendLine(_ context.Context, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lines = append(f.lines, line)

	return f.sendErr
}

type fakeSignaler struct {
	mu     sync.Mutex
	killed []int
	errs   map[int]error
}

func (f *fakeSignaler) Kill(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.killed = append(f.killed, pid)

	return f.errs[pid]
}

func table(parents map[int]int) proctree.Locator {
	return proctree.TableFunc(func(context.Context) (map[int]int, error) {
		return parents, nil
	})
}

func TestQuit_NotStarted(t *testing.T) {
	sig := &fakeSignaler{}
	c := New(slog.Default(), &fakeTarget{}, table(nil), sig)

	require.ErrorIs(t, c.Quit(context.Background()), errors.ErrNotStarted)
	require.Empty(t, sig.killed)
}

func TestQuit_Exited(t *testing.T) {
	c := New(slog.Default(), &fakeTarget{pid: 100}, table(nil), &fakeSignaler{})

	require.ErrorIs(t, c.Quit(context.Background()), errors.ErrProcessExited)
}

func TestQuit_NotInteractiveSendsQuit(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true}
	sig := &fakeSignaler{}
	c := New(slog.Default(), target, table(map[int]int{101: 100}), sig)

	require.NoError(t, c.Quit(context.Background()))
	require.Equal(t, []string{"quit"}, target.lines)
	require.Empty(t, sig.killed, "no signal without a running game")
	require.True(t, target.closing, "a requested quit is not a crash")
}

func TestQuit_NotInteractiveSendError(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, sendErr: errors.ErrProcessExited}
	c := New(slog.Default(), target, table(nil), &fakeSignaler{})

	require.ErrorIs(t, c.Quit(context.Background()), errors.ErrProcessExited)
}

func TestQuit_InteractiveKillsTree(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	sig := &fakeSignaler{}
	c := New(slog.Default(), target, table(map[int]int{
		101: 100, // game jvm
		102: 101, // game helper
		200: 1,   // unrelated
	}), sig)

	require.NoError(t, c.Quit(context.Background()))
	require.True(t, target.closing)
	require.Empty(t, target.lines, "no quit line is written to an interactive launcher")
	require.Equal(t, []int{101, 102, 100}, sig.killed)
	require.False(t, target.interactive, "no game survives the tree kill")
}

func TestQuit_InteractiveNoDescendantsKillsRoot(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	sig := &fakeSignaler{}
	c := New(slog.Default(), target, table(map[int]int{}), sig)

	require.NoError(t, c.Quit(context.Background()))
	require.True(t, target.closing)
	require.Equal(t, []int{100}, sig.killed)
}

func TestQuit_GoneProcessesAreIgnored(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	sig := &fakeSignaler{errs: map[int]error{
		101: errors.ErrProcessGone,
		100: errors.ErrProcessGone,
	}}
	c := New(slog.Default(), target, table(map[int]int{101: 100}), sig)

	require.NoError(t, c.Quit(context.Background()))
}

func TestQuit_KillErrorsAreJoined(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	denied := stderrors.New("operation not permitted")
	sig := &fakeSignaler{errs: map[int]error{101: denied}}
	c := New(slog.Default(), target, table(map[int]int{101: 100, 102: 100}), sig)

	err := c.Quit(context.Background())

	require.ErrorIs(t, err, denied)
	require.Equal(t, []int{101, 102, 100}, sig.killed, "a failed kill does not stop the sweep")
}

func TestQuit_LocateFailureStillKillsRoot(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	sig := &fakeSignaler{}
	broken := stderrors.New("proc unreadable")
	locator := proctree.TableFunc(func(context.Context) (map[int]int, error) {
		return nil, broken
	})
	c := New(slog.Default(), target, locator, sig)

	err := c.Quit(context.Background())

	require.ErrorIs(t, err, broken)
	require.Equal(t, []int{100}, sig.killed)
}

func TestQuit_SlowLocateRespectsContext(t *testing.T) {
	target := &fakeTarget{pid: 100, running: true, interactive: true}
	sig := &fakeSignaler{}
	release := make(chan struct{})
	defer close(release)

	locator := proctree.TableFunc(func(context.Context) (map[int]int, error) {
		<-release

		return nil, nil
	})
	c := New(slog.Default(), target, locator, sig)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Quit(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, []int{100}, sig.killed)
}

func TestNew_Defaults(t *testing.T) {
	c := New(slog.Default(), &fakeTarget{}, nil, nil)

	require.NotNil(t, c.locator)
	require.NotNil(t, c.signaler)
}
