package threads

import (
	"testing"

	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/typetag"
)

func newDriver() *Driver {
	d := New(Options{})
	d.Reset()
	return d
}

func TestBeginMainThreadTwiceAfterReset(t *testing.T) {
	d := New(Options{})
	d.Reset()
	d.BeginMainThread()
	d.EndMainThread()
	d.Reset()
	d.BeginMainThread() // must not panic after Reset
}

func TestBeginMainThreadWhileActivePanics(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling BeginMainThread twice without Reset")
		}
	}()
	d.BeginMainThread()
}

func TestEndThreadWithoutBeginPanics(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling EndThread with no spawned thread")
		}
	}()
	d.EndThread()
}

func TestEndMainThreadWithSpawnedThreadActivePanics(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()
	d.BeginThread()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic ending main thread with a spawned thread still active")
		}
	}()
	d.EndMainThread()
}

func TestCurrentTracksActiveThread(t *testing.T) {
	d := newDriver()
	main := d.BeginMainThread()
	if d.Current() != main {
		t.Fatal("Current does not report the main thread recorder")
	}

	child := d.BeginThread()
	if d.Current() != child {
		t.Fatal("Current does not report the spawned thread recorder after BeginThread")
	}
	d.EndThread()
	if d.Current() != main {
		t.Fatal("Current does not restore the parent recorder after EndThread")
	}
	d.EndMainThread()
}

func TestThreadSyncRecordsSpawnAndJoin(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()
	d.BeginThread()
	d.EndThread()
	d.EndMainThread()

	syncs := d.ThreadSyncs()
	if len(syncs) != 1 {
		t.Fatalf("ThreadSyncs len = %d, want 1", len(syncs))
	}
	s := syncs[0]
	if s.Spawn == nil || s.Join == nil {
		t.Fatal("thread sync missing Spawn or Join event")
	}
	if !s.Spawn.IsSync() || !s.Join.IsSync() {
		t.Fatal("spawn/join events are not sync events")
	}
}

func TestErrorRecordsCurrentThreadAndGuard(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()

	cond := event.NewLiteral(typetag.Bool, 1, nil)
	d.Error(cond)
	d.EndMainThread()

	errs := d.ErrorAssertions()
	if len(errs) != 1 {
		t.Fatalf("ErrorAssertions len = %d, want 1", len(errs))
	}
	if errs[0].Cond != event.ReadInstr(cond) {
		t.Fatalf("recorded error cond = %v, want %v", errs[0].Cond, cond)
	}
	if errs[0].Guard != nil {
		t.Fatalf("recorded error guard = %v, want nil at top level", errs[0].Guard)
	}
	if got := errs[0].Stack.String(); got == "<no stack captured>" || got == "" {
		t.Fatalf("recorded error stack = %q, want a captured call stack", got)
	}
}

func TestOpenReflectsBracketState(t *testing.T) {
	d := newDriver()
	if d.Open() {
		t.Fatal("Open = true before BeginMainThread, want false")
	}
	d.BeginMainThread()
	if !d.Open() {
		t.Fatal("Open = false with the main thread active, want true")
	}
	d.EndMainThread()
	if d.Open() {
		t.Fatal("Open = true after EndMainThread, want false")
	}
}

func TestRecordersIncludesMainAndSpawnedThreads(t *testing.T) {
	d := newDriver()
	d.BeginMainThread()
	d.BeginThread()
	d.EndThread()
	d.EndMainThread()

	recs := d.Recorders()
	if len(recs) != 2 {
		t.Fatalf("Recorders len = %d, want 2", len(recs))
	}
}
