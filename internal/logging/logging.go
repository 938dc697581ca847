package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DebugEnabled reports whether TCHECK_DEBUG is set to anything.
func DebugEnabled() bool {
	return os.Getenv("TCHECK_DEBUG") != ""
}

// New returns a logger writing to w. An unparsable level falls back to info;
// TCHECK_DEBUG overrides the level to debug.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "tcheck",
		ReportTimestamp: true,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

func ParseLevel(level string) log.Level {
	if DebugEnabled() {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// OpenFile returns a logger appending to path. The terminal belongs to the
// TUI while it runs, so interactive sessions log here instead of stderr.
func OpenFile(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

func Discard() *log.Logger {
	return log.New(io.Discard)
}
