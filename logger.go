package headlessmc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NopLogger returns a logger that discards all output.
// Use this when you want silent operation with no logging overhead.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTextLogger returns a text logger writing to w at the named level
// ("debug", "info", "warn" or "error"). An empty level means info.
func NewTextLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level

	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
