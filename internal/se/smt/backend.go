// Package smt declares the interface the encoder lowers a recording to
// (spec.md §6): an actual SMT solver is explicitly out of scope for this
// module, so Backend is the seam a caller plugs a real one (Z3, CVC5, ...)
// into. internal/se/smt/reftest provides a small bounded-enumeration
// backend good enough for this module's own tests, not for production use.
package smt

// Sort identifies a term's domain: the booleans, or a fixed-width
// bitvector. Each backend supplies its own concrete Sort type; callers
// only ever pass Sort values back to the same Backend that produced them.
type Sort interface{}

// Term is an opaque handle to a backend-constructed expression. Like Sort,
// callers only ever pass a Term back to the Backend that produced it.
type Term interface{}

// Result is a solver's verdict for a Check call.
type Result uint8

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Backend is the encoder's target: everything it needs from an SMT solver
// to lower a recorded event graph and ask whether some condition is
// reachable (spec.md §4.J, §6).
type Backend interface {
	BoolSort() Sort
	BitVecSort(width int) Sort

	// FreshConst declares a new free variable of the given sort. hint is a
	// human-readable name for diagnostics only; backends are free to
	// rename to avoid collisions.
	FreshConst(sort Sort, hint string) Term

	Bool(v bool) Term
	BitVec(sort Sort, bits uint64) Term

	Not(t Term) Term
	And(ts ...Term) Term
	Or(ts ...Term) Term
	Eq(a, b Term) Term
	Ite(cond, then, els Term) Term

	Add(a, b Term) Term
	Sub(a, b Term) Term
	Mul(a, b Term) Term

	// Lt/Le/Gt/Ge compare a and b as signed or unsigned bitvectors
	// according to signed.
	Lt(a, b Term, signed bool) Term
	Le(a, b Term, signed bool) Term
	Gt(a, b Term, signed bool) Term
	Ge(a, b Term, signed bool) Term

	// Assert adds t as a hard constraint.
	Assert(t Term)

	// Check reports whether the conjunction of every asserted term is
	// satisfiable.
	Check() (Result, error)
}
