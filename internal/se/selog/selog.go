// Package selog is the recording engine's logging seam. It defines a small
// Logger interface the rest of the module codes against, with a default
// implementation backed by github.com/hashicorp/go-hclog (the structured
// logger used throughout internal/race/detector in the example pack) and a
// no-op implementation for callers who don't want any logging output at all.
package selog

import (
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

// Logger is the logging surface the recording engine depends on. It is
// intentionally smaller than hclog.Logger: just enough to report bracket
// warnings, promotion/demotion-style diagnostics, and encode-time notices,
// without binding every caller to a specific logging library's full API.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that annotates every subsequent message with
	// the given key/value pairs.
	With(args ...any) Logger
}

// New returns a Logger backed by hclog, named "se", writing to os.Stderr.
// Level is controlled by the SE_LOG_LEVEL environment variable (debug,
// info, warn, error), defaulting to warn.
func New() Logger {
	level := hclog.LevelFromString(os.Getenv("SE_LOG_LEVEL"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclogAdapter{hclog.New(&hclog.LoggerOptions{
		Name:   "se",
		Level:  level,
		Output: os.Stderr,
	})}
}

type hclogAdapter struct {
	l hclog.Logger
}

func (a hclogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a hclogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a hclogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a hclogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
func (a hclogAdapter) With(args ...any) Logger {
	return hclogAdapter{a.l.With(args...)}
}

// Nop is a Logger that discards everything, used as the default so the
// engine is silent until a caller explicitly wires in New() or their own
// Logger.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)    {}
func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (n nopLogger) With(...any) Logger    { return n }
