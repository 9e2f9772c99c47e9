package se

import (
	"github.com/kolkov/libse/internal/se/selog"
	"github.com/kolkov/libse/internal/se/threads"
)

// driver is the process-wide recording state (spec.md §5): which thread is
// current, and the full set of recorders/error-assertions built up since
// the last Reset. It mirrors the original's static Threads/Recorder
// globals — there is one recording in flight at a time, matching how the
// original_source benchmarks are written (se::Threads::reset() at the top
// of every test, never two recordings interleaved in one process).
var driver = threads.New(threads.Options{Logger: selog.Nop})

// SetLogger replaces the driver's logger. Call before Threads.Reset.
func SetLogger(l selog.Logger) {
	driver = threads.New(threads.Options{Logger: l})
}
