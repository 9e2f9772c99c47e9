package event

import (
	"testing"

	"github.com/kolkov/libse/internal/se/typetag"
	"github.com/kolkov/libse/internal/se/zone"
)

func TestEventIDParity(t *testing.T) {
	Reset(0)
	z := zone.Unique()

	r := NewRead(0, z, typetag.Int32, nil)
	if r.ID()%2 != 0 {
		t.Fatalf("read event id = %d, want even", r.ID())
	}

	w := NewWrite(0, z, typetag.Int32, NewLiteral(typetag.Int32, 0, nil), nil)
	if w.ID()%2 != 1 {
		t.Fatalf("write event id = %d, want odd", w.ID())
	}

	s := NewSync(0, z, nil)
	if s.ID()%2 != 1 {
		t.Fatalf("sync event id = %d, want odd", s.ID())
	}
}

func TestEventIDMonotone(t *testing.T) {
	Reset(0)
	z := zone.Unique()

	a := NewRead(0, z, typetag.Int32, nil)
	b := NewRead(0, z, typetag.Int32, nil)
	if b.ID() <= a.ID() {
		t.Fatalf("ids not monotone: a=%d b=%d", a.ID(), b.ID())
	}
}

func TestResetRestartsAtBase(t *testing.T) {
	Reset(5)
	z := zone.Unique()
	r := NewRead(0, z, typetag.Int32, nil)
	if r.ID() != 10 {
		t.Fatalf("id = %d, want 10 (2*base)", r.ID())
	}
}

func TestNewWriteNilInstrPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil instr")
		}
	}()
	NewWrite(0, zone.Unique(), typetag.Int32, nil, nil)
}

func TestNewBasicRequiresReadEvent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic wrapping a write event")
		}
	}()
	w := NewWrite(0, zone.Unique(), typetag.Int32, NewLiteral(typetag.Int32, 0, nil), nil)
	NewBasic(w)
}

func TestNewBinaryDifferentGuardsPanics(t *testing.T) {
	Reset(0)
	z := zone.Unique()
	g1 := NewBasic(NewRead(0, z, typetag.Bool, nil))
	g2 := NewBasic(NewRead(0, z, typetag.Bool, nil))

	left := NewLiteral(typetag.Int32, 1, g1)
	right := NewLiteral(typetag.Int32, 2, g2)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic combining operands with different guards")
		}
	}()
	NewBinary(ADD, typetag.Int32, left, right)
}

func TestNewBinaryNilGuardCompatibleWithAny(t *testing.T) {
	Reset(0)
	z := zone.Unique()
	g := NewBasic(NewRead(0, z, typetag.Bool, nil))

	left := NewLiteral(typetag.Int32, 1, nil)
	right := NewLiteral(typetag.Int32, 2, g)

	// Must not panic: a nil guard is compatible with anything.
	n := NewBinary(ADD, typetag.Int32, left, right)
	if n.Guard() != g {
		t.Fatalf("combined guard = %v, want %v", n.Guard(), g)
	}
}

func TestFilterOrderAndDedup(t *testing.T) {
	Reset(0)
	z := zone.Unique()
	r1 := NewRead(0, z, typetag.Int32, nil)
	r2 := NewRead(0, z, typetag.Int32, nil)

	b1 := NewBasic(r1)
	b2 := NewBasic(r2)
	// (r1 + r2) + r1: r1 appears twice, should be filtered to one entry.
	sum := NewBinary(ADD, typetag.Int32, b1, b2)
	instr := NewBinary(ADD, typetag.Int32, sum, b1)

	got := Filter(instr)
	if len(got) != 2 {
		t.Fatalf("Filter returned %d events, want 2 (deduped): %v", len(got), got)
	}
	// Filter returns right-to-left order (see its doc comment); callers
	// reverse once more to restore left-to-right source order.
	if got[0].ID() != r2.ID() || got[1].ID() != r1.ID() {
		t.Fatalf("Filter order = [%d %d], want [%d %d] (right-to-left)",
			got[0].ID(), got[1].ID(), r2.ID(), r1.ID())
	}
}

func TestEventEqual(t *testing.T) {
	Reset(0)
	z := zone.Unique()
	a := NewRead(0, z, typetag.Int32, nil)
	b := NewRead(0, z, typetag.Int32, nil)

	if !a.Equal(a) {
		t.Fatal("event not equal to itself")
	}
	if a.Equal(b) {
		t.Fatal("distinct events compared equal")
	}
}
