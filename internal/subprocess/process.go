package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wagiedev/headlessmc-go/internal/config"
	"github.com/wagiedev/headlessmc-go/internal/errors"
	"github.com/wagiedev/headlessmc-go/internal/event"
	"github.com/wagiedev/headlessmc-go/internal/java"
)

const (
	// maxLineSize is the longest event payload. Longer lines are relayed in
	// chunks of this size.
	maxLineSize = 1024 * 1024 // 1MB
	// readBufferSize is the size of each stream's read buffer.
	readBufferSize = 64 * 1024
	// outputDrainTimeout bounds how long output is read after the launcher
	// exits while something else still holds its pipes.
	outputDrainTimeout = time.Second
	// maxStderrTailSize caps the stderr tail kept for ProcessError. Older
	// output is dropped first.
	maxStderrTailSize = 64 * 1024
)

// Process implements config.Transport by running the launcher jar under java.
type Process struct {
	log         *slog.Logger
	options     *config.Options
	javaPath    string
	jarPath     string
	args        []string
	env         []string
	cwd         string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderr      io.ReadCloser
	writeMu     sync.Mutex // Serializes stdin writes
	mu          sync.Mutex // Protects the flags below
	started     bool
	exited      bool
	closing     bool // The next exit is intentional
	stdinClosed bool // stdin was closed (cancelled write or Close)
	interactive atomic.Bool
}

// Compile-time verification that Process implements the Transport interface.
var _ config.Transport = (*Process)(nil)

// NewProcess creates a launcher process with the given options.
//
// Java and jar discovery is deferred to Start.
func NewProcess(log *slog.Logger, options *config.Options) *Process {
	return &Process{
		log:     log.With("component", "launcher_process"),
		options: options,
	}
}

// Start discovers java and the jar, then spawns the launcher with its
// standard streams piped.
//
// The context bounds discovery only. The launcher outlives it and is
// stopped by Close or a quit.
//
// Returns JavaNotFoundError or JarNotFoundError when discovery fails,
// ConnectionError if the process cannot be spawned, and ErrAlreadyStarted
// on a second call.
func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return errors.ErrAlreadyStarted
	}

	p.log.Info("Starting launcher process")

	discoverer := java.NewDiscoverer(&java.Config{
		JavaPath:         p.options.JavaPath,
		JarPath:          p.options.JarPath,
		SkipVersionCheck: p.options.SkipVersionCheck,
		Logger:           p.log,
	})

	javaPath, jarPath, err := discoverer.Discover(ctx)
	if err != nil {
		return err
	}

	p.javaPath = javaPath
	p.jarPath = jarPath
	p.args = java.BuildArgs(jarPath, p.options.JVMArgs, p.options.ExtraArgs)
	p.env = java.BuildEnvironment(p.options.Env)

	p.log.Debug("Built command arguments", "args", p.args)

	p.cwd = p.options.Cwd
	if p.cwd == "" {
		p.cwd, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	}

	//nolint:gosec // G204: the java path and arguments come from the caller's configuration
	cmd := exec.Command(p.javaPath, p.args...)
	cmd.Dir = p.cwd
	cmd.Env = p.env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		p.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.ConnectionError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		p.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.ConnectionError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		p.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.ConnectionError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		p.log.Error("Failed to start launcher process", "error", err)

		return &errors.ConnectionError{Err: fmt.Errorf("start process: %w", err)}
	}

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = stdout
	p.stderr = stderr
	p.started = true

	p.log.Info("Launcher process started", "pid", cmd.Process.Pid, "java", p.javaPath, "jar", p.jarPath)

	return nil
}

// ReadEvents relays launcher output as classified events.
//
// Stdout and stderr are read line by line on separate goroutines and merged
// into one channel; lines from the same stream keep their order. Lines
// longer than maxLineSize are relayed in maxLineSize chunks.
//
// The launcher is reaped as soon as it exits, independently of its output
// pipes, which a game started by the launcher may inherit and hold open.
// After the exit the readers get outputDrainTimeout to finish before the
// pipes are closed under them. An exit with a positive code that was not
// requested through MarkClosing or Close is then sent on the error channel
// as a FatalError wrapping a ProcessError. Both channels are closed when
// the goroutine exits.
//
// Cancelling ctx stops delivery but does not stop the process.
func (p *Process) ReadEvents(ctx context.Context) (<-chan event.Event, <-chan error) {
	events := make(chan event.Event)
	errs := make(chan error, 1)

	if p.cmd == nil {
		errs <- errors.ErrNotStarted

		close(events)
		close(errs)

		return events, errs
	}

	tail := &stderrTail{}

	var wg sync.WaitGroup

	wg.Go(func() {
		p.scan(ctx, p.stdout, event.Stdout, events, nil)
	})

	wg.Go(func() {
		p.scan(ctx, p.stderr, event.Stderr, events, tail)
	})

	scanned := make(chan struct{})

	go func() {
		wg.Wait()
		close(scanned)
	}()

	go func() {
		defer close(errs)
		defer close(events)
		defer p.log.Debug("ReadEvents goroutine stopped")

		p.log.Debug("Waiting for launcher process to exit")

		state, waitErr := p.cmd.Process.Wait()

		p.mu.Lock()
		p.exited = true
		isClosing := p.closing
		stdin := p.stdin
		p.mu.Unlock()

		p.interactive.Store(false)

		if stdin != nil {
			_ = stdin.Close()
		}

		select {
		case <-scanned:
		case <-time.After(outputDrainTimeout):
			p.log.Debug("Launcher output still open after exit, closing pipes")

			_ = p.stdout.Close()
			_ = p.stderr.Close()

			<-scanned
		}

		if waitErr != nil {
			p.log.Warn("Failed to reap launcher process", "error", waitErr)

			return
		}

		exitCode := state.ExitCode()

		if exitCode == 0 {
			if isClosing {
				p.log.Info("Launcher process exited")
			} else {
				p.log.Warn("Launcher process exited on its own", "exit_code", 0)
			}

			return
		}

		if isClosing {
			p.log.Debug("Launcher process terminated during shutdown", "state", state.String())

			return
		}

		if exitCode < 0 {
			p.log.Warn("Launcher process was terminated", "state", state.String())

			return
		}

		stderrOutput := tail.String()

		p.log.Error("Launcher process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

		errs <- &errors.FatalError{Err: &errors.ProcessError{
			ExitCode: exitCode,
			Stderr:   stderrOutput,
			Err:      &exec.ExitError{ProcessState: state},
		}}
	}()

	return events, errs
}

// scan reads r until EOF or until the pipe is closed after the launcher
// exits. A cancelled ctx only stops forwarding.
func (p *Process) scan(
	ctx context.Context,
	r io.Reader,
	stream event.Stream,
	out chan<- event.Event,
	tail *stderrTail,
) {
	reader := bufio.NewReaderSize(r, readBufferSize)
	line := make([]byte, 0, readBufferSize)
	forwarding := true

	emit := func(chunk []byte) {
		chunk = bytes.TrimRight(chunk, "\r\n")

		if tail != nil {
			tail.Write(chunk)
		}

		if !forwarding {
			return
		}

		payload := bytes.Clone(chunk)
		if payload == nil {
			payload = []byte{}
		}

		ev := event.Event{
			Kind:    event.Classify(payload),
			Stream:  stream,
			Payload: payload,
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			p.log.Debug("Context cancelled, draining launcher output", "stream", stream.String())

			forwarding = false
		}
	}

	for {
		frag, err := reader.ReadSlice('\n')
		line = append(line, frag...)

		if stderrors.Is(err, bufio.ErrBufferFull) {
			if len(line) >= maxLineSize {
				p.log.Debug("Splitting over-long launcher line", "stream", stream.String())

				emit(line[:maxLineSize])
				line = append(line[:0], line[maxLineSize:]...)
			}

			continue
		}

		if len(line) > 0 {
			emit(line)
			line = line[:0]
		}

		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				p.log.Debug("Read error", "stream", stream.String(), "error", err)
			}

			return
		}
	}
}

// SendLine writes line and a trailing newline to the launcher's stdin.
//
// Writes are serialized and respect ctx even while blocked. A cancelled
// write closes stdin, after which every call fails with ErrProcessExited.
func (p *Process) SendLine(ctx context.Context, line string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	stdin, exited, stdinClosed := p.stdin, p.exited, p.stdinClosed
	p.mu.Unlock()

	if stdin == nil {
		return errors.ErrNotStarted
	}

	if exited || stdinClosed {
		return errors.ErrProcessExited
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data := []byte(strings.TrimRight(line, "\r\n") + "\n")

	p.log.Debug("Sending line to launcher", "line", strings.TrimSpace(line))

	done := make(chan error, 1)

	go func() {
		_, err := stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			p.log.Error("Failed to write to launcher", "error", err)

			return fmt.Errorf("write to stdin: %w", err)
		}

		return nil

	case <-ctx.Done():
		p.log.Debug("Context cancelled during write, closing stdin")

		p.mu.Lock()
		p.stdinClosed = true
		p.mu.Unlock()

		_ = stdin.Close()

		select {
		case <-done:
		case <-time.After(1 * time.Second):
			p.log.Warn("Write goroutine did not exit after stdin close, potential leak")
		}

		return ctx.Err()
	}
}

// Pid returns the launcher's process ID, or 0 before Start.
func (p *Process) Pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}

	return p.cmd.Process.Pid
}

// Running reports whether the launcher has been started and not yet reaped.
func (p *Process) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started && !p.exited
}

// Interactive reports whether a launched game session is believed active.
func (p *Process) Interactive() bool {
	return p.interactive.Load()
}

// SetInteractive records whether a game session is active.
func (p *Process) SetInteractive(active bool) {
	p.interactive.Store(active)
}

// MarkClosing flags the next exit as intentional.
func (p *Process) MarkClosing() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closing = true
}

// Close terminates the launcher process.
//
// The process is killed outright; use a quit for an orderly shutdown of a
// running game. It's safe to call Close multiple times or on an exited
// process.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closing = true
	p.stdinClosed = true

	if p.cmd == nil || p.cmd.Process == nil || p.exited {
		return nil
	}

	p.log.Debug("Killing launcher process", "pid", p.cmd.Process.Pid)

	if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill launcher process (pid %d): %w", p.cmd.Process.Pid, err)
	}

	return nil
}

// stderrTail keeps the most recent stderr output up to maxStderrTailSize.
type stderrTail struct {
	mu  sync.Mutex
	buf []byte
}

func (t *stderrTail) Write(line []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, line...)
	t.buf = append(t.buf, '\n')

	if over := len(t.buf) - maxStderrTailSize; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
}

func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return strings.TrimSpace(string(t.buf))
}
