// Package loop implements bounded loop unwinding (spec.md §6, §10): a
// helper that lets a recorded program decide, iteration by iteration,
// whether to keep unwinding a loop whose trip count is itself symbolic.
//
// Grounded on original_source/bench/vs_cbmc/implicit_loop_sp.cpp's
// Loop/track/unwind pattern:
//
//	Int k = any_int("K");
//	Loop loop(N);
//	loop.track(k);
//	while (loop.unwind(k < INT_MAX)) { k = k + 1; ... }
//
// and restyled after internal/race/detector/sampler.go's counter-and-config
// shape — but deterministic, not probabilistic: a loop bound must cut
// unwinding off at an exact iteration count, where a sampler is free to
// skip probabilistically. Unlike a sampler, Unwind also takes the real
// continuation condition: unwind(k < INT_MAX), not a bare unwind().
package loop

import (
	"github.com/kolkov/libse/internal/se/encode"
	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/smt"
)

// Tracked is anything a Loop can snapshot each iteration (Track registers
// it; History returns the snapshots, one set per unwound iteration, showing
// the tracked value's progression). Any symbolic
// value the se package exposes (se.Sym[T], se.Val[T]) implements this by
// formatting its current defining expression.
type Tracked interface {
	Snapshot() string
}

// Cond is a loop's continuation condition: besides Tracked's diagnostic
// Snapshot, Unwind needs the condition's own read-instruction node to ask
// whether it can still hold. se.Val[bool] — the type every comparison
// method on se.Var/se.Val already returns — implements this directly.
type Cond interface {
	Tracked
	Instr() event.ReadInstr
}

// Loop bounds how many times a recorded while-loop unwinds. Bound is the
// maximum number of true results Unwind will ever return; once bound calls
// have returned true, every further call returns false regardless of cond.
// Within that hard cutoff,
// Unwind also stops early once cond is no longer satisfiable under the
// current recording, by lowering it through internal/se/encode against a
// freshly constructed internal/se/smt.Backend on every call.
type Loop struct {
	bound      int
	count      int
	tracked    []Tracked
	history    [][]string
	newBackend func() smt.Backend
}

// New returns a Loop that unwinds at most bound times. newBackend, if
// non-nil, is called once per Unwind to obtain a disposable backend for
// that call's satisfiability check — disposable because smt.Backend has no
// way to retract an Assert, so reusing one across iterations would leave
// every earlier iteration's condition permanently asserted against every
// later one. A nil newBackend makes bound the only cutoff, which is still
// a correct (just more conservative) Loop.
func New(bound int, newBackend func() smt.Backend) *Loop {
	return &Loop{bound: bound, newBackend: newBackend}
}

// Track registers t to have its value snapshotted on every Unwind call
// that returns true; the snapshots are available through History.
func (l *Loop) Track(t Tracked) {
	l.tracked = append(l.tracked, t)
}

// Unwind reports whether the loop should execute one more iteration:
// false once bound iterations have already been taken, or once cond is no
// longer satisfiable under the current recording (the program under test
// can no longer reach a state where cond holds, so recording further
// iterations guarded by it would be dead code). A Loop built without a
// newBackend skips the satisfiability check and relies on bound alone.
func (l *Loop) Unwind(cond Cond) bool {
	if l.count >= l.bound {
		return false
	}
	if l.newBackend != nil {
		backend := l.newBackend()
		if res, err := encode.Satisfiable(backend, cond.Instr()); err == nil && res == smt.Unsat {
			return false
		}
	}
	l.count++

	snap := make([]string, len(l.tracked))
	for i, t := range l.tracked {
		snap[i] = t.Snapshot()
	}
	l.history = append(l.history, snap)
	return true
}

// Count reports how many iterations have been unwound so far.
func (l *Loop) Count() int { return l.count }

// Bound reports the configured maximum iteration count.
func (l *Loop) Bound() int { return l.bound }

// Exhausted reports whether the loop hit its bound rather than being left
// by cond becoming false — i.e. whether the recording may be missing
// iterations the real program would have taken.
func (l *Loop) Exhausted() bool { return l.count >= l.bound }

// History returns, for each iteration already unwound, the snapshot taken
// of every tracked value at that point.
func (l *Loop) History() [][]string { return l.history }
