package se

import (
	"bytes"
	"fmt"

	"github.com/kolkov/libse/internal/se/diag"
	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/typetag"
	"github.com/kolkov/libse/internal/se/zone"
)

// Val[T] is the result of reading a Var[T] or combining other Val[T]
// values: a node of the read-instruction DAG (internal/se/event), carrying
// a dependency on whichever read events it was built from. Unlike Sym[T],
// every Val[T] traces back to at least one recorded read (or is a bare
// literal with no dependency at all).
type Val[T Scalar] struct {
	instr event.ReadInstr
}

// Lit wraps a concrete Go value as an unconditioned Val.
func Lit[T Scalar](v T) Val[T] {
	return Val[T]{instr: event.NewLiteral(tagOf[T](), bitsOf(v), nil)}
}

// Instr exposes the underlying read-instruction node, for
// internal/se/encode and for tests.
func (v Val[T]) Instr() event.ReadInstr { return v.instr }

// String formats v the same way Sym.String does: parenthesized infix,
// e.g. "([e2]+2)" for a read of event 2 plus the literal 2. Val's
// read-instruction DAG (internal/se/event) has no ground-truth test of its
// own — there is no ConcurrentVar<T> formatter in original_source — but
// Val plays the same role the original's Value<T> plays (the thing that
// wraps an Expr and is asked to print it), so it keeps the same
// notation as Sym rather than inventing a second one.
func (v Val[T]) String() string {
	var buf bytes.Buffer
	writeInstr(&buf, v.instr)
	return buf.String()
}

// Snapshot implements internal/se/loop.Tracked.
func (v Val[T]) Snapshot() string { return v.String() }

func writeInstr(buf *bytes.Buffer, n event.ReadInstr) {
	switch e := n.(type) {
	case *event.Literal:
		if e.Type() == typetag.Bool {
			fmt.Fprintf(buf, "%t", e.Bits()&1 != 0)
		} else {
			fmt.Fprintf(buf, "%d", e.Bits())
		}
	case *event.Basic:
		fmt.Fprintf(buf, "[e%d]", e.Event().ID())
	case *event.Unary:
		fmt.Fprintf(buf, "(%s", e.Op())
		writeInstr(buf, e.Operand())
		fmt.Fprintf(buf, ")")
	case *event.Binary:
		fmt.Fprintf(buf, "(")
		writeInstr(buf, e.Left())
		fmt.Fprintf(buf, "%s", e.Op())
		writeInstr(buf, e.Right())
		fmt.Fprintf(buf, ")")
	}
}

func (v Val[T]) nary(op event.BinaryOp, o Val[T]) Val[T] {
	return Val[T]{instr: event.NewBinary(op, tagOf[T](), v.instr, o.instr)}
}

// Add, Sub, Mul combine two Val values of the same type.
func (v Val[T]) Add(o Val[T]) Val[T] { return v.nary(event.ADD, o) }
func (v Val[T]) Sub(o Val[T]) Val[T] { return v.nary(event.SUB, o) }
func (v Val[T]) Mul(o Val[T]) Val[T] { return v.nary(event.MUL, o) }

// Neg negates v.
func (v Val[T]) Neg() Val[T] {
	return Val[T]{instr: event.NewUnary(event.NEG, tagOf[T](), v.instr)}
}

// Lss, Leq, Gtr, Geq, Eql, Neq compare two Val values, producing a Val[bool].
func (v Val[T]) Lss(o Val[T]) Val[bool] { return v.cmp(event.LSS, o) }
func (v Val[T]) Leq(o Val[T]) Val[bool] { return v.cmp(event.LEQ, o) }
func (v Val[T]) Gtr(o Val[T]) Val[bool] { return v.cmp(event.GTR, o) }
func (v Val[T]) Geq(o Val[T]) Val[bool] { return v.cmp(event.GEQ, o) }
func (v Val[T]) Eql(o Val[T]) Val[bool] { return v.cmp(event.EQL, o) }
func (v Val[T]) Neq(o Val[T]) Val[bool] { return v.cmp(event.NEQ, o) }

func (v Val[T]) cmp(op event.BinaryOp, o Val[T]) Val[bool] {
	return Val[bool]{instr: event.NewBinary(op, typetag.Bool, v.instr, o.instr)}
}

// ValAnd, ValOr, ValNot are the boolean connectives over Val[bool] (see
// Sym's And/Or/Not for why these are functions, not methods).
func ValAnd(a, b Val[bool]) Val[bool] {
	return Val[bool]{instr: event.NewBinary(event.LAND, typetag.Bool, a.instr, b.instr)}
}
func ValOr(a, b Val[bool]) Val[bool] {
	return Val[bool]{instr: event.NewBinary(event.LOR, typetag.Bool, a.instr, b.instr)}
}
func ValNot(a Val[bool]) Val[bool] {
	return Val[bool]{instr: event.NewUnary(event.LNOT, typetag.Bool, a.instr)}
}

// Var[T] is a concurrently shared variable (spec.md §4.I): every Read
// produces a fresh read event against the active thread's recorder, and
// every Assign produces a fresh write event carrying the assigned Val's
// read-instruction graph. Grounded on
// original_source/include/concurrent/var.h's ConcurrentVar<T>.
type Var[T Scalar] struct {
	addr zone.Zone
	tag  typetag.Tag
}

// NewVar allocates a fresh shared variable, initialized to v, with a
// synthetic address distinct from every other Var's.
func NewVar[T Scalar](v T) *Var[T] {
	sv := &Var[T]{addr: zone.Unique(), tag: tagOf[T]()}
	sv.Assign(Lit(v))
	return sv
}

// NewVarAt allocates a shared variable at an explicit address — e.g. the
// identity of a real Go variable the program under test also touches
// outside the recording, for aliasing against — initialized to v. addr must
// be non-zero: a zero uintptr usually means the caller forgot to take a
// real pointer's address, and would silently alias every other zero-address
// Var ever constructed this way.
func NewVarAt[T Scalar](addr uintptr, v T) (*Var[T], error) {
	if addr == 0 {
		return nil, diag.InvalidArgument("se: NewVarAt called with a zero address")
	}
	sv := &Var[T]{addr: zone.Of(addr), tag: tagOf[T]()}
	sv.Assign(Lit(v))
	return sv, nil
}

// Addr exposes the variable's zone, for constructing further Vars that
// should alias it (e.g. a union member or array element).
func (sv *Var[T]) Addr() zone.Zone { return sv.addr }

// Read records a fresh read of sv under the active thread's current path
// condition.
func (sv *Var[T]) Read() Val[T] {
	ev := driver.Current().AppendRead(sv.addr, sv.tag)
	return Val[T]{instr: event.NewBasic(ev)}
}

// Assign records a fresh write of val to sv under the active thread's
// current path condition.
func (sv *Var[T]) Assign(val Val[T]) {
	driver.Current().AppendWrite(sv.addr, sv.tag, val.instr)
}

// Add, Sub, Mul, Neg, Lss, Leq, Gtr, Geq, Eql, Neq read sv and combine the
// result with o, without an explicit Read() call — convenience for the
// common "i = i + j" shape (original_source/bench/fib_006_safe_bench.cpp).
func (sv *Var[T]) Add(o Val[T]) Val[T] { return sv.Read().Add(o) }
func (sv *Var[T]) Sub(o Val[T]) Val[T] { return sv.Read().Sub(o) }
func (sv *Var[T]) Mul(o Val[T]) Val[T] { return sv.Read().Mul(o) }
func (sv *Var[T]) Neg() Val[T]         { return sv.Read().Neg() }
func (sv *Var[T]) Lss(o Val[T]) Val[bool] { return sv.Read().Lss(o) }
func (sv *Var[T]) Leq(o Val[T]) Val[bool] { return sv.Read().Leq(o) }
func (sv *Var[T]) Gtr(o Val[T]) Val[bool] { return sv.Read().Gtr(o) }
func (sv *Var[T]) Geq(o Val[T]) Val[bool] { return sv.Read().Geq(o) }
func (sv *Var[T]) Eql(o Val[T]) Val[bool] { return sv.Read().Eql(o) }
func (sv *Var[T]) Neq(o Val[T]) Val[bool] { return sv.Read().Neq(o) }
