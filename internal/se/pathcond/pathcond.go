// Package pathcond implements the per-thread path condition (spec.md §3,
// §4.E): the conjunctive stack of guard predicates active at the current
// point of recording.
//
// Grounded on original_source/include/concurrent/recorder.h's
// PathCondition, which is a stack<shared_ptr<ReadInstr<bool>>>: pushing a
// new guard conjoins it with whatever was previously on top. An empty
// stack has no guard node at all: its Top is nil, which the recorder, the
// event constructors and the encoder all read as unconditionally true.
package pathcond

import "github.com/kolkov/libse/internal/se/event"

// Stack is a thread's path condition: a LIFO sequence of guards, each
// already conjoined with everything pushed before it, so Top is always a
// single read instruction.
type Stack struct {
	frames []event.ReadInstr
}

// New returns an empty path condition (Top reads as unconditionally true).
func New() *Stack {
	return &Stack{}
}

// Top returns the current guard: the conjunction of every frame pushed so
// far, or nil if the stack is empty (unconditional). Callers that need an
// actual ReadInstr for an unconditional guard should use
// internal/se/event.NewLiteral with a true bit instead of calling Top.
func (s *Stack) Top() event.ReadInstr {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Push enters a new guard, conjoined with the current top so the new frame
// is always a single node representing "everything true so far, and also
// cond". If the stack is empty, the new frame is just cond.
func (s *Stack) Push(cond event.ReadInstr) {
	top := s.Top()
	if top == nil {
		s.frames = append(s.frames, cond)
		return
	}
	conj := event.NewBinary(event.LAND, cond.Type(), top, cond)
	s.frames = append(s.frames, conj)
}

// Pop leaves the most recently pushed guard, restoring the previous top.
// Popping an empty stack is a fatal programming error: it means a branch
// exited without having entered, which should never happen given the block
// tree's bracket discipline (internal/se/block, internal/se/threads).
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		panic("pathcond: Pop on empty path condition")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth reports how many guards are currently pushed.
func (s *Stack) Depth() int {
	return len(s.frames)
}
