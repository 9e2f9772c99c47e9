// Package block implements the block tree (spec.md §3, §4.G): the
// branching structure that a thread's recorded events are organized into,
// so that flattening the tree in document order reproduces exactly the
// order events were appended during recording.
//
// Grounded on original_source/test/concurrent/block_test.cpp, whose
// InsertEvents/InsertAllEmpty cases pin down that Append and AppendAll are
// plain sequential concatenation — no reordering happens at this layer; any
// reversal trickery belongs to the recorder's own log splicing (internal/se
// /recorder), not here.
package block

import "github.com/kolkov/libse/internal/se/event"

// Kind names a block's role in the tree.
type Kind uint8

const (
	KindRoot Kind = iota
	KindThen
	KindElse
	KindThreadBody
)

// item is either a directly appended event or a nested child block, kept in
// the order it was added so Flatten can reproduce it exactly.
type item struct {
	ev    *event.Event
	child *Block
}

// Block is one node of the block tree: a sequence of events interleaved
// with nested branch/thread-body blocks.
type Block struct {
	kind   Kind
	closed bool
	items  []item
}

// MakeRoot returns a fresh root block for a thread's top-level recording.
func MakeRoot() *Block {
	return &Block{kind: KindRoot}
}

// Kind reports the block's role.
func (b *Block) Kind() Kind { return b.kind }

// Append adds a single event at the current position. Appending to a
// closed block is a fatal programming error.
func (b *Block) Append(ev *event.Event) {
	b.mustBeOpen()
	b.items = append(b.items, item{ev: ev})
}

// AppendAll adds a sequence of events at the current position, in the
// order given. A nil or empty slice is a no-op.
func (b *Block) AppendAll(evs []*event.Event) {
	b.mustBeOpen()
	for _, ev := range evs {
		b.items = append(b.items, item{ev: ev})
	}
}

// BranchThen opens a new child block for the taken-if-true side of a
// conditional, inserted at the current position, and returns it.
func (b *Block) BranchThen() *Block {
	return b.branch(KindThen)
}

// BranchElse opens a new child block for the taken-if-false side of a
// conditional, inserted at the current position, and returns it.
func (b *Block) BranchElse() *Block {
	return b.branch(KindElse)
}

// BranchThread opens a new child block for a spawned thread's body,
// inserted at the current position, and returns it.
func (b *Block) BranchThread() *Block {
	return b.branch(KindThreadBody)
}

func (b *Block) branch(k Kind) *Block {
	b.mustBeOpen()
	child := &Block{kind: k}
	b.items = append(b.items, item{child: child})
	return child
}

// Close marks b as finished: no more events or branches may be added to it.
// Closing an already-closed block is a no-op.
func (b *Block) Close() {
	b.closed = true
}

func (b *Block) mustBeOpen() {
	if b.closed {
		panic("block: append/branch on a closed block")
	}
}

// Flatten walks the block tree in document order and returns the events it
// contains, reproducing exactly the order they were appended during
// recording, including events contributed by nested then/else blocks
// inline at the position they were branched.
//
// A nested thread-body block is deliberately NOT descended into: it is the
// root block of a different thread's own Recorder (internal/se/recorder.
// NewThreadBody shares the very *Block instance with the spawning thread's
// tree so the spawn point stays positionally accurate), and that thread's
// own events are collected separately when its own Recorder is flattened
// (internal/se/threads.Driver.Recorders lists every thread's recorder for
// exactly this reason). Recursing into it here would both double-count
// every spawned event (once via the parent's flatten, once via the
// child's own) and, worse, re-chain the parent's surrounding sync markers
// directly to the child's internal events as ordinary program order,
// silently re-imposing the false sibling-serialization
// internal/se/encode's addProgramOrderIsolatingSiblings exists to prevent.
func (b *Block) Flatten() []*event.Event {
	var out []*event.Event
	for _, it := range b.items {
		if it.child != nil {
			if it.child.kind == KindThreadBody {
				continue
			}
			out = append(out, it.child.Flatten()...)
		} else {
			out = append(out, it.ev)
		}
	}
	return out
}
