//go:build unix

package proctree

import (
	stderrors "errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/headlessmc-go/internal/errors"
)

type killSignaler struct{}

// NewSignaler returns a Signaler that sends SIGKILL.
func NewSignaler() Signaler {
	return killSignaler{}
}

func (killSignaler) Kill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("kill: invalid pid %d", pid)
	}

	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		if stderrors.Is(err, unix.ESRCH) {
			return errors.ErrProcessGone
		}

		return fmt.Errorf("kill %d: %w", pid, err)
	}

	return nil
}
