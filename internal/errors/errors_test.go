package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJavaNotFoundError(t *testing.T) {
	err := &JavaNotFoundError{
		SearchedPaths: []string{"/opt/jdk/bin/java", "$PATH"},
	}

	require.Equal(t, "java executable not found in: [/opt/jdk/bin/java $PATH]", err.Error())
	require.True(t, err.IsHeadlessMCError())
}

func TestJarNotFoundError(t *testing.T) {
	require.Equal(t, "launcher jar not found: /tmp/hmc.jar", (&JarNotFoundError{Path: "/tmp/hmc.jar"}).Error())
	require.Equal(t, "launcher jar not configured", (&JarNotFoundError{}).Error())
}

func TestConnectionError(t *testing.T) {
	root := errors.New("fork failed")
	err := &ConnectionError{Err: root}

	require.Equal(t, "failed to start launcher: fork failed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsHeadlessMCError())
}

func TestProcessError_WithUnderlyingError(t *testing.T) {
	root := errors.New("exit status 3")
	err := &ProcessError{
		ExitCode: 3,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "launcher process failed (exit 3): exit status 3", err.Error())
	require.ErrorIs(t, err, root)
}

func TestProcessError_WithStderrOnly(t *testing.T) {
	err := &ProcessError{
		ExitCode: 1,
		Stderr:   "Error: Unable to access jarfile",
	}

	require.Equal(t, "launcher process failed (exit 1): Error: Unable to access jarfile", err.Error())
	require.NoError(t, err.Unwrap())
}

func TestOperationError(t *testing.T) {
	err := &OperationError{Op: "login", Payload: "java.io.IOException: refused"}

	require.Equal(t, "login failed: java.io.IOException: refused", err.Error())
	require.True(t, err.IsHeadlessMCError())
}

func TestUnexpectedOutputError(t *testing.T) {
	err := &UnexpectedOutputError{Op: "login", Payload: "Loading assets", Count: 3}

	require.Contains(t, err.Error(), "Loading assets")
	require.Contains(t, err.Error(), "3 lines")
}

func TestFatalError(t *testing.T) {
	inner := &ProcessError{ExitCode: 2, Stderr: "boom"}
	err := fmt.Errorf("relay: %w", &FatalError{Err: inner})

	require.True(t, IsFatal(err))
	require.False(t, IsFatal(inner))
	require.False(t, IsFatal(nil))

	procErr, ok := errors.AsType[*ProcessError](err)
	require.True(t, ok)
	require.Equal(t, 2, procErr.ExitCode)
}
