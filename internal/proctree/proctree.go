// Package proctree finds and signals the descendants of a process.
//
// The launcher spawns the game as a grandchild of the supervisor, so killing
// only the direct child leaves the game running. Locator walks the platform
// process table to find every descendant; Signaler force-kills a PID.
package proctree

import (
	"bufio"
	"bytes"
	"context"
	"slices"
	"strconv"
	"strings"
)

// Locator enumerates live descendants of a process.
type Locator interface {
	// Descendants returns every descendant of pid, breadth-first, excluding
	// pid itself. A pid with no children yields an empty slice.
	Descendants(ctx context.Context, pid int) ([]int, error)
}

// Signaler force-terminates processes.
type Signaler interface {
	// Kill terminates pid. It returns errors.ErrProcessGone when pid no
	// longer exists.
	Kill(pid int) error
}

// TableFunc adapts a pid→ppid snapshot source into a Locator.
type TableFunc func(ctx context.Context) (map[int]int, error)

// Descendants implements Locator.
func (f TableFunc) Descendants(ctx context.Context, pid int) ([]int, error) {
	parents, err := f(ctx)
	if err != nil {
		return nil, err
	}

	return descendants(parents, pid), nil
}

// descendants walks a pid→ppid table breadth-first from root.
func descendants(parents map[int]int, root int) []int {
	children := make(map[int][]int, len(parents))

	for pid, ppid := range parents {
		if pid == ppid {
			continue
		}

		children[ppid] = append(children[ppid], pid)
	}

	for _, kids := range children {
		slices.Sort(kids)
	}

	seen := map[int]bool{root: true}
	queue := []int{root}
	out := make([]int, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, kid := range children[cur] {
			if seen[kid] {
				continue
			}

			seen[kid] = true
			out = append(out, kid)
			queue = append(queue, kid)
		}
	}

	return out
}

// parsePS parses `ps -A -o pid=,ppid=` output. Malformed lines are skipped.
func parsePS(out []byte) map[int]int {
	parents := make(map[int]int, 256)
	scanner := bufio.NewScanner(bytes.NewReader(out))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}

		ppid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}

		parents[pid] = ppid
	}

	return parents
}

// parseStatPPID extracts the parent PID from the contents of /proc/<pid>/stat.
// The comm field may contain spaces and parentheses, so parsing starts after
// the last ')'.
func parseStatPPID(stat []byte) (int, bool) {
	end := bytes.LastIndexByte(stat, ')')
	if end < 0 || end+1 >= len(stat) {
		return 0, false
	}

	fields := strings.Fields(string(stat[end+1:]))
	// fields[0] is the state, fields[1] the ppid.
	if len(fields) < 2 {
		return 0, false
	}

	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}

	return ppid, true
}
