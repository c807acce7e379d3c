//go:build windows

package proctree

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/wagiedev/headlessmc-go/internal/errors"
)

type killSignaler struct{}

// NewSignaler returns a Signaler that calls TerminateProcess.
func NewSignaler() Signaler {
	return killSignaler{}
}

func (killSignaler) Kill(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return errors.ErrProcessGone
	}

	if err := proc.Kill(); err != nil {
		if stderrors.Is(err, os.ErrProcessDone) {
			return errors.ErrProcessGone
		}

		return fmt.Errorf("kill %d: %w", pid, err)
	}

	return nil
}
