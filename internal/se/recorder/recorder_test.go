package recorder

import (
	"testing"

	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/typetag"
	"github.com/kolkov/libse/internal/se/zone"
)

func TestAppendReadUsesCurrentGuard(t *testing.T) {
	event.Reset(0)
	r := New(0)
	z := zone.Unique()
	g := event.NewBasic(event.NewRead(0, zone.Unique(), typetag.Bool, nil))

	r.EnterThen(g)
	ev := r.AppendRead(z, typetag.Int32)
	r.Leave()

	if ev.Guard() != event.ReadInstr(g) {
		t.Fatalf("read guard = %v, want %v", ev.Guard(), g)
	}
}

func TestAppendWriteSplicesDependentReadsBeforeIt(t *testing.T) {
	event.Reset(0)
	r := New(0)
	zx := zone.Unique()
	zy := zone.Unique()

	// Simulate "y = y + x": read y and x without recording them directly,
	// then hand their combined instruction to AppendWrite.
	readY := event.NewRead(0, zy, typetag.Int32, nil)
	readX := event.NewRead(0, zx, typetag.Int32, nil)
	sum := event.NewBinary(event.ADD, typetag.Int32, event.NewBasic(readY), event.NewBasic(readX))

	we := r.AppendWrite(zy, typetag.Int32, sum)

	got := r.Root().Flatten()
	if len(got) != 3 {
		t.Fatalf("log len = %d, want 3 (2 spliced reads + 1 write)", len(got))
	}
	if got[0].ID() != readY.ID() || got[1].ID() != readX.ID() {
		t.Fatalf("spliced reads out of order: got [%d %d], want [%d %d]",
			got[0].ID(), got[1].ID(), readY.ID(), readX.ID())
	}
	if got[2].ID() != we.ID() {
		t.Fatalf("write not last in log: %v", got)
	}
}

func TestEnterThenLeaveRestoresGuard(t *testing.T) {
	event.Reset(0)
	r := New(0)
	if r.Guard() != nil {
		t.Fatalf("initial guard = %v, want nil", r.Guard())
	}

	g := event.NewBasic(event.NewRead(0, zone.Unique(), typetag.Bool, nil))
	r.EnterThen(g)
	if r.Guard() != event.ReadInstr(g) {
		t.Fatalf("guard inside then = %v, want %v", r.Guard(), g)
	}
	r.Leave()
	if r.Guard() != nil {
		t.Fatalf("guard after Leave = %v, want nil", r.Guard())
	}
}

func TestNewThreadBodyIsolatedFromParentFlatten(t *testing.T) {
	event.Reset(0)
	parent := New(0)
	before := parent.AppendSync(zone.Unique())

	child := NewThreadBody(1, parent)
	inChild := child.AppendRead(zone.Unique(), typetag.Int32)

	after := parent.AppendSync(zone.Unique())

	// The spawned thread's own body must not appear in the parent's
	// flatten: it belongs to a separate Recorder, collected on its own via
	// threads.Driver.Recorders (internal/se/block.Block.Flatten's
	// thread-body skip).
	got := parent.Root().Flatten()
	if len(got) != 2 {
		t.Fatalf("parent log len = %d, want 2 (before, after; child body excluded)", len(got))
	}
	if got[0].ID() != before.ID() || got[1].ID() != after.ID() {
		t.Fatalf("parent log order wrong: %v", got)
	}

	childLog := child.Root().Flatten()
	if len(childLog) != 1 || childLog[0].ID() != inChild.ID() {
		t.Fatalf("child's own flatten = %v, want [%d]", childLog, inChild.ID())
	}
}
