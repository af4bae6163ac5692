package fontatlas

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the sink collaborator the core surfaces failures through (§5,
// §7 of the design): source-missing and parse errors, per-glyph native
// engine failures, and save-path invariant violations are all logged
// rather than propagated, except where the immediate caller also needs an
// error return (Save/Load).
//
// No third-party structured-logging library is exercised anywhere in the
// retrieved teacher or sibling example repos, so the default implementation
// wraps the standard library's log/slog.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
}

// slogLogger adapts log/slog to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger returns a Logger writing structured text lines to os.Stderr.
func NewSlogLogger() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, nil))}
}

func (s *slogLogger) Errorf(format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

// nopLogger discards everything; useful in tests.
type nopLogger struct{}

// NewNopLogger returns a Logger that discards all messages.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Errorf(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any)  {}
