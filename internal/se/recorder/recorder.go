// Package recorder implements the per-thread recording engine (spec.md §3,
// §4.F): the append-only event log a thread builds as the program under
// test drives it, backed by a internal/se/block tree and an
// internal/se/pathcond guard stack.
//
// Grounded on original_source/include/concurrent/recorder.h's Recorder::
// instr(addr, instr_ptr), which is the write path: filter the write's
// defining instruction for the read events it depends on, splice those in
// immediately before the write, then append the write itself. The read
// path (instr() called with no instruction, i.e. a bare load) is the hot
// path and does none of that work, mirrored here as AppendRead vs
// AppendWrite.
package recorder

import (
	"github.com/kolkov/libse/internal/se/block"
	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/pathcond"
	"github.com/kolkov/libse/internal/se/typetag"
	"github.com/kolkov/libse/internal/se/zone"
)

// Recorder is one thread's view of the recording: its path condition and
// the stack of block-tree nodes currently open for appends (the top of
// the stack is the block new events land in).
type Recorder struct {
	threadID uint32
	cond     *pathcond.Stack
	blocks   []*block.Block
}

// New starts a recorder for a top-level thread, with a fresh root block.
func New(threadID uint32) *Recorder {
	return &Recorder{
		threadID: threadID,
		cond:     pathcond.New(),
		blocks:   []*block.Block{block.MakeRoot()},
	}
}

// NewThreadBody starts a recorder for a thread spawned from within
// parent's current block, at the current point of parent's recording. The
// new thread's body is nested into the block tree as a thread-body child,
// inline at the spawn point, but it gets its own event log (its own
// Recorder) from here on.
func NewThreadBody(threadID uint32, parent *Recorder) *Recorder {
	child := parent.current().BranchThread()
	return &Recorder{
		threadID: threadID,
		cond:     pathcond.New(),
		blocks:   []*block.Block{child},
	}
}

// ThreadID reports the thread this recorder belongs to.
func (r *Recorder) ThreadID() uint32 { return r.threadID }

// Root returns the recorder's top-level block, for flattening once
// recording is complete.
func (r *Recorder) Root() *block.Block { return r.blocks[0] }

func (r *Recorder) current() *block.Block {
	return r.blocks[len(r.blocks)-1]
}

// AppendRead records a fresh read event at addr under the current path
// condition and appends it to the current block. This is the hot path: no
// filtering, no splicing.
func (r *Recorder) AppendRead(addr zone.Zone, tag typetag.Tag) *event.Event {
	ev := event.NewRead(r.threadID, addr, tag, r.cond.Top())
	r.current().Append(ev)
	return ev
}

// AppendWrite records a fresh write event at addr, carrying instr as its
// defining value. Before the write itself is appended, instr is filtered
// for the read events it depends on and those are spliced into the block
// immediately before the write, in left-to-right source order (spec.md
// §4.B, §4.F's ordering guarantee). A read that is already in this
// recorder's log (e.g. one recorded earlier by AppendRead) is not spliced
// in a second time.
func (r *Recorder) AppendWrite(addr zone.Zone, tag typetag.Tag, instr event.ReadInstr) *event.Event {
	inLog := make(map[*event.Event]bool)
	for _, ev := range r.Root().Flatten() {
		inLog[ev] = true
	}
	reads := event.Filter(instr) // right-to-left order; see event.Filter's doc
	chron := make([]*event.Event, 0, len(reads))
	for i := len(reads) - 1; i >= 0; i-- {
		if !inLog[reads[i]] {
			chron = append(chron, reads[i])
		}
	}
	r.current().AppendAll(chron)

	we := event.NewWrite(r.threadID, addr, tag, instr, r.cond.Top())
	r.current().Append(we)
	return we
}

// AppendSync records a fresh synchronization event at addr under the
// current path condition.
func (r *Recorder) AppendSync(addr zone.Zone) *event.Event {
	ev := event.NewSync(r.threadID, addr, r.cond.Top())
	r.current().Append(ev)
	return ev
}

// EnterThen opens the then-branch of a conditional guarded by cond,
// pushing cond onto the path condition and descending into a fresh child
// block. Must be paired with Leave.
func (r *Recorder) EnterThen(cond event.ReadInstr) {
	child := r.current().BranchThen()
	r.cond.Push(cond)
	r.blocks = append(r.blocks, child)
}

// EnterElse opens the else-branch of a conditional guarded by the negation
// of the branch's condition; cond should already be that negation. Must be
// paired with Leave.
func (r *Recorder) EnterElse(cond event.ReadInstr) {
	child := r.current().BranchElse()
	r.cond.Push(cond)
	r.blocks = append(r.blocks, child)
}

// Leave closes the most recently entered branch, restoring the path
// condition and block-tree position from before the matching Enter{Then,
// Else}. Calling Leave without a matching Enter is a fatal programming
// error, enforced transitively by pathcond.Stack.Pop.
func (r *Recorder) Leave() {
	r.cond.Pop()
	r.current().Close()
	r.blocks = r.blocks[:len(r.blocks)-1]
}

// Guard returns the conjunction of every guard currently in effect, or nil
// if the recorder is at top level (unconditionally true).
func (r *Recorder) Guard() event.ReadInstr {
	return r.cond.Top()
}
