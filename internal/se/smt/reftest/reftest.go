// Package reftest is a bounded-enumeration reference implementation of
// smt.Backend, used only by this module's own tests to obtain a real
// Sat/Unsat verdict without depending on an actual SMT solver (which
// spec.md §6 explicitly keeps out of scope). It works by brute-forcing
// every assignment of free variables up to a per-variable cap and checking
// whether any assignment satisfies every asserted term — correct for the
// small, intentionally tiny recordings this module's test scenarios build,
// and useless for anything larger.
package reftest

import (
	"fmt"

	"github.com/kolkov/libse/internal/se/diag"
	"github.com/kolkov/libse/internal/se/smt"
)

// DefaultMaxEnum bounds how many distinct values each free variable is
// tried with. A bitvector of width w contributes min(2^w, DefaultMaxEnum)
// candidate values; bool contributes 2.
const DefaultMaxEnum = 64

type sort struct {
	isBool bool
	width  int
}

func (sort) isSort() {}

type constHandle struct {
	sort sort
	name string
}

type env map[*constHandle]uint64

type term struct {
	eval func(e env) uint64
}

func (term) isTerm() {}

func asTerm(t smt.Term) term {
	tt, ok := t.(term)
	if !ok {
		panic(fmt.Sprintf("reftest: term from a different backend: %T", t))
	}
	return tt
}

// Backend is a fresh reftest solver instance. The zero value is not ready
// for use; call New.
type Backend struct {
	maxEnum int
	consts  []*constHandle
	asserts []term
}

// New returns a Backend that enumerates up to maxEnum values per free
// variable. A maxEnum of 0 uses DefaultMaxEnum.
func New(maxEnum int) *Backend {
	if maxEnum <= 0 {
		maxEnum = DefaultMaxEnum
	}
	return &Backend{maxEnum: maxEnum}
}

func (b *Backend) BoolSort() smt.Sort            { return sort{isBool: true} }
func (b *Backend) BitVecSort(width int) smt.Sort { return sort{width: width} }

func (b *Backend) FreshConst(s smt.Sort, hint string) smt.Term {
	c := &constHandle{sort: s.(sort), name: hint}
	b.consts = append(b.consts, c)
	return term{eval: func(e env) uint64 { return e[c] }}
}

func (b *Backend) Bool(v bool) smt.Term {
	var bit uint64
	if v {
		bit = 1
	}
	return term{eval: func(env) uint64 { return bit }}
}

func (b *Backend) BitVec(s smt.Sort, bits uint64) smt.Term {
	masked := mask(bits, s.(sort))
	return term{eval: func(env) uint64 { return masked }}
}

func (b *Backend) Not(t smt.Term) smt.Term {
	tt := asTerm(t)
	return term{eval: func(e env) uint64 {
		if tt.eval(e) == 0 {
			return 1
		}
		return 0
	}}
}

func (b *Backend) And(ts ...smt.Term) smt.Term {
	tts := make([]term, len(ts))
	for i, t := range ts {
		tts[i] = asTerm(t)
	}
	return term{eval: func(e env) uint64 {
		for _, t := range tts {
			if t.eval(e) == 0 {
				return 0
			}
		}
		return 1
	}}
}

func (b *Backend) Or(ts ...smt.Term) smt.Term {
	tts := make([]term, len(ts))
	for i, t := range ts {
		tts[i] = asTerm(t)
	}
	return term{eval: func(e env) uint64 {
		for _, t := range tts {
			if t.eval(e) != 0 {
				return 1
			}
		}
		return 0
	}}
}

func (b *Backend) Eq(a, c smt.Term) smt.Term {
	at, ct := asTerm(a), asTerm(c)
	return term{eval: func(e env) uint64 {
		if at.eval(e) == ct.eval(e) {
			return 1
		}
		return 0
	}}
}

func (b *Backend) Ite(cond, then, els smt.Term) smt.Term {
	ct, tt, et := asTerm(cond), asTerm(then), asTerm(els)
	return term{eval: func(e env) uint64 {
		if ct.eval(e) != 0 {
			return tt.eval(e)
		}
		return et.eval(e)
	}}
}

func (b *Backend) Add(a, c smt.Term) smt.Term { return b.arith(a, c, func(x, y uint64) uint64 { return x + y }) }
func (b *Backend) Sub(a, c smt.Term) smt.Term { return b.arith(a, c, func(x, y uint64) uint64 { return x - y }) }
func (b *Backend) Mul(a, c smt.Term) smt.Term { return b.arith(a, c, func(x, y uint64) uint64 { return x * y }) }

func (b *Backend) arith(a, c smt.Term, op func(x, y uint64) uint64) smt.Term {
	at, ct := asTerm(a), asTerm(c)
	return term{eval: func(e env) uint64 {
		return op(at.eval(e), ct.eval(e))
	}}
}

func (b *Backend) Lt(a, c smt.Term, signed bool) smt.Term {
	return b.cmp(a, c, signed, func(x, y int64) bool { return x < y }, func(x, y uint64) bool { return x < y })
}
func (b *Backend) Le(a, c smt.Term, signed bool) smt.Term {
	return b.cmp(a, c, signed, func(x, y int64) bool { return x <= y }, func(x, y uint64) bool { return x <= y })
}
func (b *Backend) Gt(a, c smt.Term, signed bool) smt.Term {
	return b.cmp(a, c, signed, func(x, y int64) bool { return x > y }, func(x, y uint64) bool { return x > y })
}
func (b *Backend) Ge(a, c smt.Term, signed bool) smt.Term {
	return b.cmp(a, c, signed, func(x, y int64) bool { return x >= y }, func(x, y uint64) bool { return x >= y })
}

func (b *Backend) cmp(a, c smt.Term, signed bool, sop func(x, y int64) bool, uop func(x, y uint64) bool) smt.Term {
	at, ct := asTerm(a), asTerm(c)
	return term{eval: func(e env) uint64 {
		x, y := at.eval(e), ct.eval(e)
		var ok bool
		if signed {
			ok = sop(int64(x), int64(y))
		} else {
			ok = uop(x, y)
		}
		if ok {
			return 1
		}
		return 0
	}}
}

func (b *Backend) Assert(t smt.Term) {
	b.asserts = append(b.asserts, asTerm(t))
}

// Check brute-forces every assignment of the backend's free variables
// (each capped at b.maxEnum candidate values) and reports Sat if any
// assignment satisfies every asserted term, Unsat otherwise. Returns
// Unknown only if it is asked to enumerate more combinations than is
// reasonable to attempt (guards against accidental exponential blowup in
// a test).
func (b *Backend) Check() (smt.Result, error) {
	domains := make([][]uint64, len(b.consts))
	total := 1
	for i, c := range b.consts {
		d := domain(c.sort, b.maxEnum)
		domains[i] = d
		total *= len(d)
		if total > 1<<20 {
			return smt.Unknown, diag.FailedPrecondition("reftest: search space too large to enumerate (%d variables)", len(b.consts))
		}
	}

	e := make(env, len(b.consts))
	if satisfy(b.consts, domains, 0, e, b.asserts) {
		return smt.Sat, nil
	}
	return smt.Unsat, nil
}

func satisfy(consts []*constHandle, domains [][]uint64, i int, e env, asserts []term) bool {
	if i == len(consts) {
		for _, a := range asserts {
			if a.eval(e) == 0 {
				return false
			}
		}
		return true
	}
	for _, v := range domains[i] {
		e[consts[i]] = v
		if satisfy(consts, domains, i+1, e, asserts) {
			return true
		}
	}
	return false
}

func domain(s sort, maxEnum int) []uint64 {
	if s.isBool {
		return []uint64{0, 1}
	}
	width := s.width
	if width <= 0 {
		width = 32
	}
	count := uint64(maxEnum)
	if width < 63 {
		if full := uint64(1) << uint(width); full < count {
			count = full
		}
	}
	out := make([]uint64, count)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

func mask(bits uint64, s sort) uint64 {
	if s.isBool {
		return bits & 1
	}
	width := s.width
	if width <= 0 || width >= 64 {
		return bits
	}
	return bits & ((uint64(1) << uint(width)) - 1)
}
