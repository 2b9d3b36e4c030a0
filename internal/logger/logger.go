package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Mode is the process-wide verbosity, fixed at startup.
type Mode string

const (
	ModeInfo  Mode = "info"
	ModeDebug Mode = "debug"
)

// ErrInvalidMode is returned for any mode string other than "info" or "debug".
var ErrInvalidMode = errors.New("log mode must be \"info\" or \"debug\"")

// ParseMode validates the optional log-mode argument. Empty input selects
// the default info mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return ModeInfo, nil
	case "debug":
		return ModeDebug, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidMode, raw)
	}
}

// Level maps the mode onto slog levels.
func (m Mode) Level() slog.Level {
	if m == ModeDebug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// New constructs a text logger appending to the given file. Every line
// carries the service name and a fresh run id so interleaved invocations
// sharing one log file stay distinguishable. When the file cannot be
// opened the logger falls back to stderr.
func New(service string, mode Mode, path string) *slog.Logger {
	var out io.Writer = os.Stderr
	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = f
		} else {
			fmt.Fprintf(os.Stderr, "log file %s unavailable, logging to stderr: %v\n", path, err)
		}
	}

	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: mode.Level()})
	return slog.New(h).With(
		slog.String("service", service),
		slog.String("run", uuid.NewString()),
	)
}
