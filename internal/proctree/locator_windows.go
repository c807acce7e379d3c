//go:build windows

package proctree

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// NewLocator returns a Locator backed by a toolhelp process snapshot.
func NewLocator() Locator {
	return TableFunc(snapshotTable)
}

func snapshotTable(ctx context.Context) (map[int]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	parents := make(map[int]int, 256)

	err = windows.Process32First(snap, &entry)
	for err == nil {
		parents[int(entry.ProcessID)] = int(entry.ParentProcessID)
		err = windows.Process32Next(snap, &entry)
	}

	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return nil, fmt.Errorf("walk process snapshot: %w", err)
	}

	return parents, nil
}
