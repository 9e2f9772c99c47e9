// Package threads implements the concurrency driver (spec.md §3, §5, §6):
// the bracket-disciplined state machine that tells the recording engine
// which thread is "current" as a program under test structurally
// interleaves main-thread and spawned-thread recording.
//
// Concurrency here is simulated, not executed: spawned-thread bodies are
// recorded one at a time, in program order, exactly as the original C++
// benchmarks drive se::Threads — there is no real goroutine scheduling to
// race against. Grounded on original_source/bench/fib_006_safe_bench.cpp's
// call sequence (reset/begin_main_thread/begin_thread.../end_thread...
// /error/end_main_thread) and restyled after internal/race/detector.Detector's
// Options/logging shape.
package threads

import (
	"sync"

	"github.com/kolkov/libse/internal/se/diag"
	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/recorder"
	"github.com/kolkov/libse/internal/se/selog"
	"github.com/kolkov/libse/internal/se/zone"
)

// ThreadSync records the fork/join events bracketing one spawned thread's
// lifetime, for the encoder's happens-before graph (internal/se/encode):
// Spawn happens-before the child's first event, and the child's last event
// happens-before Join.
type ThreadSync struct {
	ChildThreadID uint32
	Spawn         *event.Event
	Join          *event.Event // nil until the matching EndThread
}

// Options configures a Driver. The zero value is a Driver with no logging.
type Options struct {
	// Logger receives bracket-discipline and lifecycle diagnostics. Nil
	// means selog.Nop.
	Logger selog.Logger
}

// ErrorAssertion is one condition recorded via Driver.Error: an assertion
// that, if satisfiable under its guard, means the program under test can
// reach a failing state (spec.md §8 scenario 1's "377 < i || 377 < j").
type ErrorAssertion struct {
	ThreadID uint32
	Guard    event.ReadInstr // the path condition active when Error was called
	Cond     event.ReadInstr // the asserted (bad) condition itself
	Stack    diag.Stack      // call site of the Error call, for reporting a Sat result
}

// Driver holds the process-wide "current recorder" state (spec.md §5): a
// LIFO stack of active thread recorders, bottom always the main thread
// once begun. Bracket violations (EndThread without BeginThread, Error
// before BeginMainThread, and so on) are fatal programming errors — they
// indicate the instrumented program's control flow doesn't match what it
// told the driver, which this module has no way to recover from.
type Driver struct {
	opts Options
	log  selog.Logger

	mu           sync.Mutex
	stack        []*recorder.Recorder
	all          []*recorder.Recorder
	errors       []ErrorAssertion
	syncs        map[uint32]*ThreadSync
	nextThreadID uint32
}

// New returns a Driver ready for use. Callers must still call Reset (or
// BeginMainThread directly) before recording.
func New(opts Options) *Driver {
	log := opts.Logger
	if log == nil {
		log = selog.Nop
	}
	return &Driver{opts: opts, log: log}
}

// Reset discards all recorded state and restarts event/zone id generation
// at zero, ready for a fresh recording session.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stack = nil
	d.all = nil
	d.errors = nil
	d.syncs = nil
	d.nextThreadID = 0
	event.Reset(0)
	zone.Reset(0)
	d.log.Debug("threads: reset")
}

func (d *Driver) top() *recorder.Recorder {
	if len(d.stack) == 0 {
		panic("threads: no active thread (call BeginMainThread first)")
	}
	return d.stack[len(d.stack)-1]
}

// Current returns the recorder for whichever thread is presently active.
// Every Var[T] read/write goes through this, exactly as the original's
// ConcurrentVar<T> goes through Recorder::recorder_ptr().
func (d *Driver) Current() *recorder.Recorder {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.top()
}

// BeginMainThread starts the main thread's recorder. It must be called
// exactly once per recording session, before any BeginThread/Error call,
// and is the bottom of the bracket stack.
func (d *Driver) BeginMainThread() *recorder.Recorder {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.stack) != 0 {
		panic("threads: BeginMainThread called with a thread already active")
	}
	r := recorder.New(d.nextThreadID)
	d.nextThreadID++
	d.stack = append(d.stack, r)
	d.all = append(d.all, r)
	d.log.Debug("threads: begin main thread", "thread_id", r.ThreadID())
	return r
}

// BeginThread spawns a new thread recorder, nested in the block tree at the
// current thread's present position, and makes it current. Must be paired
// with a later EndThread.
func (d *Driver) BeginThread() *recorder.Recorder {
	d.mu.Lock()
	defer d.mu.Unlock()

	parent := d.top()
	spawn := parent.AppendSync(zone.Unique())
	r := recorder.NewThreadBody(d.nextThreadID, parent)
	d.nextThreadID++
	d.stack = append(d.stack, r)
	d.all = append(d.all, r)
	if d.syncs == nil {
		d.syncs = make(map[uint32]*ThreadSync)
	}
	d.syncs[r.ThreadID()] = &ThreadSync{ChildThreadID: r.ThreadID(), Spawn: spawn}
	d.log.Debug("threads: begin thread", "thread_id", r.ThreadID(), "parent_thread_id", parent.ThreadID())
	return r
}

// EndThread closes the most recently begun thread (that isn't the main
// thread) and restores its parent as current. Calling EndThread without a
// matching BeginThread, or when only the main thread is active, is a fatal
// programming error.
func (d *Driver) EndThread() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.stack) < 2 {
		panic("threads: EndThread without a matching BeginThread")
	}
	r := d.stack[len(d.stack)-1]
	parent := d.stack[len(d.stack)-2]
	d.stack = d.stack[:len(d.stack)-1]

	join := parent.AppendSync(zone.Unique())
	if sync, ok := d.syncs[r.ThreadID()]; ok {
		sync.Join = join
	}
	d.log.Debug("threads: end thread", "thread_id", r.ThreadID())
}

// Error records cond as an assertion that must not be satisfiable under
// the current thread's path condition, for the encoder to include as a
// query goal. It may be called any number of times between
// BeginMainThread and EndMainThread. The call site's stack is captured
// alongside it, so a caller inspecting ErrorAssertions after a Sat result
// can point back at the source line that raised the failing check.
func (d *Driver) Error(cond event.ReadInstr) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.top()
	d.errors = append(d.errors, ErrorAssertion{
		ThreadID: cur.ThreadID(),
		Guard:    cur.Guard(),
		Cond:     cond,
		Stack:    diag.Capture(1),
	})
}

// EndMainThread closes the recording session. Only the main thread may
// still be active — any unclosed spawned thread is a fatal programming
// error, since it means some EndThread call is missing.
func (d *Driver) EndMainThread() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.stack) == 0 {
		panic("threads: EndMainThread called with no active main thread")
	}
	if len(d.stack) != 1 {
		panic("threads: EndMainThread called with spawned threads still active")
	}
	d.log.Debug("threads: end main thread", "thread_id", d.stack[0].ThreadID())
	d.stack = d.stack[:0]
}

// Open reports whether a thread recorder is still active — the main thread
// was begun but EndMainThread has not yet closed the bracket, or a spawned
// thread is still missing its EndThread. The encoder checks this before
// lowering: encoding a recording whose brackets never closed would silently
// analyze a partial program, which is a caller precondition violation (spec.md
// §7) rather than the DAG-invariant breaks this package panics on.
func (d *Driver) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.stack) != 0
}

// Recorders returns every thread recorder created since the last Reset, in
// creation order (main thread first), for the encoder to flatten and
// lower.
func (d *Driver) Recorders() []*recorder.Recorder {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*recorder.Recorder, len(d.all))
	copy(out, d.all)
	return out
}

// ErrorAssertions returns every condition recorded via Error since the last
// Reset.
func (d *Driver) ErrorAssertions() []ErrorAssertion {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ErrorAssertion, len(d.errors))
	copy(out, d.errors)
	return out
}

// ThreadSyncs returns the fork/join bracket for every thread spawned since
// the last Reset, for the encoder's happens-before graph.
func (d *Driver) ThreadSyncs() []ThreadSync {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ThreadSync, 0, len(d.syncs))
	for _, s := range d.syncs {
		out = append(out, *s)
	}
	return out
}
