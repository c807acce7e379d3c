//go:build unix && !linux

package proctree

import (
	"context"
	"fmt"
	"os/exec"
)

// NewLocator returns a Locator that snapshots the process table with ps.
func NewLocator() Locator {
	return TableFunc(psTable)
}

func psTable(ctx context.Context) (map[int]int, error) {
	out, err := exec.CommandContext(ctx, "ps", "-A", "-o", "pid=,ppid=").Output()
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}

	return parsePS(out), nil
}
