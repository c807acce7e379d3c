//go:build linux

package proctree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// NewLocator returns a Locator that reads /proc.
func NewLocator() Locator {
	return TableFunc(procTable("/proc"))
}

func procTable(root string) func(ctx context.Context) (map[int]int, error) {
	return func(ctx context.Context) (map[int]int, error) {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", root, err)
		}

		parents := make(map[int]int, len(entries))

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			pid, err := strconv.Atoi(entry.Name())
			if err != nil {
				continue
			}

			// Processes can exit between ReadDir and ReadFile.
			stat, err := os.ReadFile(filepath.Join(root, entry.Name(), "stat"))
			if err != nil {
				continue
			}

			if ppid, ok := parseStatPPID(stat); ok {
				parents[pid] = ppid
			}
		}

		return parents, nil
	}
}
