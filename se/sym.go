package se

import (
	"bytes"

	"github.com/kolkov/libse/internal/se/expr"
	"github.com/kolkov/libse/internal/se/typetag"
)

// Sym[T] is a purely symbolic value with no concurrency tracking: no
// recorder observes it, no event is ever produced for it. Use Sym for
// inputs like a loop bound or any other value a thread computes locally
// and never shares — internal/se/expr's Any/Value/Nary/Unary/Ternary/Cast
// DAG, grounded on original_source/test/any_test.cpp and visitor_test.cpp.
type Sym[T Scalar] struct {
	node expr.Node
}

// Any returns a fresh symbolic input of type T named name. Two Any values
// built from the same name are still distinct objects — name is a label
// for diagnostics, not an identity (original_source/test/any_test.cpp's
// NewObject/SetSymbolic contract).
func Any[T Scalar](name string) Sym[T] {
	return Sym[T]{node: expr.NewAny(tagOf[T](), name)}
}

// SymLit wraps a concrete Go value as a Sym.
func SymLit[T Scalar](v T) Sym[T] {
	return Sym[T]{node: expr.NewValue(tagOf[T](), bitsOf(v))}
}

// Node exposes the underlying expression node, for internal/se/encode and
// for tests that need to inspect the DAG directly.
func (s Sym[T]) Node() expr.Node { return s.node }

// String formats s the way a node writes itself: parenthesized infix, e.g.
// "([A]+2)" for Any("A") plus the literal 2 — the contract
// original_source/test/any_test.cpp's OperationOnAnyExpr asserts against
// Expr::write(). expr.Write's unparenthesized postorder form is a distinct,
// deliberately different notation used only by this module's Visitor demo.
func (s Sym[T]) String() string {
	var buf bytes.Buffer
	expr.WriteInfix(&buf, s.node)
	return buf.String()
}

// Snapshot implements internal/se/loop.Tracked.
func (s Sym[T]) Snapshot() string { return s.String() }

// Add, Sub, Mul combine two Sym values of the same type into a fresh Nary
// node.
func (s Sym[T]) Add(o Sym[T]) Sym[T] { return s.nary(expr.ADD, o) }
func (s Sym[T]) Sub(o Sym[T]) Sym[T] { return s.nary(expr.SUB, o) }
func (s Sym[T]) Mul(o Sym[T]) Sym[T] { return s.nary(expr.MUL, o) }

func (s Sym[T]) nary(op expr.NaryOp, o Sym[T]) Sym[T] {
	return Sym[T]{node: expr.NewNary(op, tagOf[T](), s.node, o.node)}
}

// Neg negates s.
func (s Sym[T]) Neg() Sym[T] {
	return Sym[T]{node: expr.NewUnary(expr.NEG, tagOf[T](), s.node)}
}

// Lss, Leq, Gtr, Geq, Eql, Neq compare two Sym values, producing a Sym[bool].
func (s Sym[T]) Lss(o Sym[T]) Sym[bool] { return s.cmp(expr.LSS, o) }
func (s Sym[T]) Leq(o Sym[T]) Sym[bool] { return s.cmp(expr.LEQ, o) }
func (s Sym[T]) Gtr(o Sym[T]) Sym[bool] { return s.cmp(expr.GTR, o) }
func (s Sym[T]) Geq(o Sym[T]) Sym[bool] { return s.cmp(expr.GEQ, o) }
func (s Sym[T]) Eql(o Sym[T]) Sym[bool] { return s.cmp(expr.EQL, o) }
func (s Sym[T]) Neq(o Sym[T]) Sym[bool] { return s.cmp(expr.NEQ, o) }

func (s Sym[T]) cmp(op expr.NaryOp, o Sym[T]) Sym[bool] {
	return Sym[bool]{node: expr.NewNary(op, typetag.Bool, s.node, o.node)}
}

// Cast reinterprets s as a different scalar type.
func Cast[To, From Scalar](s Sym[From]) Sym[To] {
	return Sym[To]{node: expr.NewCast(tagOf[To](), s.node)}
}

// IfThenElse selects then or els according to cond.
func IfThenElse[T Scalar](cond Sym[bool], then, els Sym[T]) Sym[T] {
	return Sym[T]{node: expr.NewTernary(tagOf[T](), cond.node, then.node, els.node)}
}

// And, Or, Not are the boolean connectives over Sym[bool]. They are
// package-level functions rather than methods because Go does not allow a
// method to be declared for one specific instantiation (Sym[bool]) of a
// generic type.
func And(a, b Sym[bool]) Sym[bool] {
	return Sym[bool]{node: expr.NewNary(expr.LAND, typetag.Bool, a.node, b.node)}
}
func Or(a, b Sym[bool]) Sym[bool] {
	return Sym[bool]{node: expr.NewNary(expr.LOR, typetag.Bool, a.node, b.node)}
}
func Not(a Sym[bool]) Sym[bool] {
	return Sym[bool]{node: expr.NewUnary(expr.LNOT, typetag.Bool, a.node)}
}
