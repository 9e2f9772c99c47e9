// Package encode lowers a completed recording (spec.md §4.J, §6) to an
// internal/se/smt.Backend: every write gets a fresh SMT constant, every
// read gets a fresh SMT constant constrained by an OR-disjunction over the
// writes it could have loaded from, and the program's error assertions
// become the query the backend is finally asked to check.
//
// The memory model is the sequentially-consistent one spec.md §5 names
// (C0): a read may load from any write that aliases its address and
// happens-before it, provided no other aliasing write that also
// happens-before the read intervenes between them. Two writes that are
// not happens-before-ordered relative to each other are both eligible
// candidates for the same read — that is the race the encoder is built to
// expose, not a bug in the "no intervening write" rule.
package encode

import (
	"fmt"

	"github.com/kolkov/libse/internal/se/diag"
	"github.com/kolkov/libse/internal/se/event"
	"github.com/kolkov/libse/internal/se/smt"
	"github.com/kolkov/libse/internal/se/threads"
	"github.com/kolkov/libse/internal/se/typetag"
	"github.com/kolkov/libse/internal/se/zone"
)

// Encoder lowers one completed recording into a single internal/se/smt.Backend
// instance.
type Encoder struct {
	backend smt.Backend

	hb       *hbGraph
	writes   []*event.Event
	reads    []*event.Event
	wTerms   map[uint64]smt.Term // write event id -> its value constant
	rTerms   map[uint64]smt.Term // read event id -> its value constant
	initial  map[string]smt.Term // addrKey -> the "never written" value constant
}

// New returns an Encoder targeting backend. backend should be empty: the
// encoder only ever adds to it.
func New(backend smt.Backend) *Encoder {
	return &Encoder{
		backend: backend,
		hb:      newHBGraph(),
		wTerms:  make(map[uint64]smt.Term),
		rTerms:  make(map[uint64]smt.Term),
		initial: make(map[string]smt.Term),
	}
}

func sortFor(backend smt.Backend, tag typetag.Tag) smt.Sort {
	if tag == typetag.Bool {
		return backend.BoolSort()
	}
	return backend.BitVecSort(tag.Width())
}

func addrKey(z zone.Zone) string {
	ptrs := z.Ptrs()
	key := ""
	for _, p := range ptrs {
		key += fmt.Sprintf("%d,", p)
	}
	return key
}

// Encode lowers every thread recorded by d and returns the result of
// checking whether any of d's recorded error assertions is reachable: Sat
// means some assertion is satisfiable (the program under test can fail),
// Unsat means none can.
//
// d must be closed (EndMainThread already called, every spawned thread
// already joined) before Encode is called; an unclosed recording is a
// caller precondition failure, returned as a diag.FailedPrecondition error
// rather than panicked, since unlike the bracket-discipline panics in
// internal/se/threads it is something a caller reasonably discovers only
// at Check time.
func Encode(d *threads.Driver, backend smt.Backend) (smt.Result, error) {
	if d.Open() {
		return smt.Unknown, diag.FailedPrecondition("encode: recording still open (EndMainThread/EndThread not called)")
	}

	e := New(backend)
	e.addRecorders(d)

	// Pass 1: a fresh constant for every write and every read.
	for _, w := range e.writes {
		e.wTerms[w.ID()] = backend.FreshConst(sortFor(backend, w.Type()), fmt.Sprintf("w%d", w.ID()))
	}
	for _, r := range e.reads {
		e.rTerms[r.ID()] = backend.FreshConst(sortFor(backend, r.Type()), fmt.Sprintf("r%d", r.ID()))
	}

	// Pass 2: constrain every write's constant to equal its defining
	// expression, conditioned on its guard.
	for _, w := range e.writes {
		val := e.lower(w.Instr())
		eq := backend.Eq(e.wTerms[w.ID()], val)
		if g := w.Guard(); g != nil {
			backend.Assert(backend.Or(backend.Not(e.lower(g)), eq))
		} else {
			backend.Assert(eq)
		}
	}

	// Pass 3: constrain every read's constant via the load-from
	// disjunction over aliasing, happens-before-ordered writes.
	for _, r := range e.reads {
		e.assertLoadFrom(r)
	}

	// The query: is any recorded error assertion, under its guard,
	// satisfiable?
	errs := d.ErrorAssertions()
	if len(errs) == 0 {
		return smt.Unsat, nil
	}
	var disjuncts []smt.Term
	for _, a := range errs {
		cond := e.lower(a.Cond)
		if a.Guard != nil {
			disjuncts = append(disjuncts, backend.And(e.lower(a.Guard), cond))
		} else {
			disjuncts = append(disjuncts, cond)
		}
	}
	backend.Assert(backend.Or(disjuncts...))

	return backend.Check()
}

func (e *Encoder) addRecorders(d *threads.Driver) {
	syncs := d.ThreadSyncs()
	joinIDs := make(map[uint64]bool, len(syncs))
	spawnIDs := make(map[uint64]bool, len(syncs))
	for _, s := range syncs {
		if s.Spawn != nil {
			spawnIDs[s.Spawn.ID()] = true
		}
		if s.Join != nil {
			joinIDs[s.Join.ID()] = true
		}
	}

	recs := d.Recorders()
	for _, r := range recs {
		log := r.Root().Flatten()
		e.hb.addProgramOrderIsolatingSiblings(log, joinIDs, spawnIDs)
		for _, ev := range log {
			switch {
			case ev.IsWrite():
				e.writes = append(e.writes, ev)
			case ev.IsRead():
				e.reads = append(e.reads, ev)
			}
		}
	}
	for _, s := range syncs {
		var childLog []*event.Event
		for _, r := range recs {
			if r.ThreadID() == s.ChildThreadID {
				childLog = r.Root().Flatten()
				break
			}
		}
		if len(childLog) == 0 {
			continue
		}
		e.hb.addEdge(s.Spawn, childLog[0])
		if s.Join != nil {
			e.hb.addEdge(childLog[len(childLog)-1], s.Join)
		}
	}
}

// lower translates a read-instruction DAG node into a backend term. Basic
// leaves resolve to the referenced read event's own constant (already
// created in Encode's pass 1).
func (e *Encoder) lower(instr event.ReadInstr) smt.Term {
	switch n := instr.(type) {
	case *event.Literal:
		if n.Type() == typetag.Bool {
			return e.backend.Bool(n.Bits()&1 != 0)
		}
		return e.backend.BitVec(sortFor(e.backend, n.Type()), n.Bits())
	case *event.Basic:
		t, ok := e.rTerms[n.Event().ID()]
		if !ok {
			panic(fmt.Sprintf("encode: read event %d has no term (not recorded by this driver?)", n.Event().ID()))
		}
		return t
	case *event.Unary:
		return e.lowerUnary(n)
	case *event.Binary:
		return e.lowerBinary(n)
	default:
		panic(fmt.Sprintf("encode: unknown ReadInstr kind %T", instr))
	}
}

func (e *Encoder) lowerUnary(n *event.Unary) smt.Term {
	child := e.lower(n.Operand())
	switch n.Op() {
	case event.NOT:
		if n.Type() == typetag.Bool {
			return e.backend.Not(child)
		}
		// Bitwise complement: ~x == (2^w - 1) - x.
		ones := ^uint64(0) >> (64 - n.Type().Width())
		return e.backend.Sub(e.backend.BitVec(sortFor(e.backend, n.Type()), ones), child)
	case event.LNOT:
		return e.backend.Not(child)
	case event.NEG:
		zero := e.backend.BitVec(sortFor(e.backend, n.Type()), 0)
		return e.backend.Sub(zero, child)
	default:
		panic("encode: unknown unary operator")
	}
}

func (e *Encoder) lowerBinary(n *event.Binary) smt.Term {
	left := e.lower(n.Left())
	right := e.lower(n.Right())
	signed := n.Left().Type().Signed()
	switch n.Op() {
	case event.ADD:
		return e.backend.Add(left, right)
	case event.SUB:
		return e.backend.Sub(left, right)
	case event.MUL:
		return e.backend.Mul(left, right)
	case event.LSS:
		return e.backend.Lt(left, right, signed)
	case event.LEQ:
		return e.backend.Le(left, right, signed)
	case event.GTR:
		return e.backend.Gt(left, right, signed)
	case event.GEQ:
		return e.backend.Ge(left, right, signed)
	case event.EQL:
		return e.backend.Eq(left, right)
	case event.NEQ:
		return e.backend.Not(e.backend.Eq(left, right))
	case event.LAND:
		return e.backend.And(left, right)
	case event.LOR:
		return e.backend.Or(left, right)
	default:
		panic("encode: unknown binary operator")
	}
}

// Satisfiable reports whether the conjunction of conds holds for some
// assignment, treating every read event any of them mentions (via
// event.Filter) as an unconstrained free variable of its own type rather
// than resolving it against a recorded program's writes. It does not model
// the happens-before/load-from semantics Encode does — it is the lighter
// check internal/se/loop.Loop uses each Unwind call to decide whether a
// loop's continuation condition can still hold, not whether a closed
// recording as a whole can reach an error.
func Satisfiable(backend smt.Backend, conds ...event.ReadInstr) (smt.Result, error) {
	e := &Encoder{backend: backend, rTerms: make(map[uint64]smt.Term)}

	var terms []smt.Term
	for _, c := range conds {
		if c == nil {
			continue
		}
		for _, ev := range event.Filter(c) {
			if _, ok := e.rTerms[ev.ID()]; !ok {
				e.rTerms[ev.ID()] = backend.FreshConst(sortFor(backend, ev.Type()), fmt.Sprintf("r%d", ev.ID()))
			}
		}
		terms = append(terms, e.lower(c))
	}
	if len(terms) == 0 {
		return smt.Sat, nil
	}
	backend.Assert(backend.And(terms...))
	return backend.Check()
}

// candidates returns, in no particular order, every write event that
// aliases r's address and happens-before r.
func (e *Encoder) candidates(r *event.Event) []*event.Event {
	var out []*event.Event
	for _, w := range e.writes {
		if zone.MayAlias(w.Addr(), r.Addr()) && e.hb.happensBefore(w, r) {
			out = append(out, w)
		}
	}
	return out
}

// assertLoadFrom constrains r's value constant to equal the value of
// exactly one of its candidate writes (the one, if any, whose guard holds
// and which no other eligible candidate intervenes on), or the address's
// initial value if no candidate's guard holds.
func (e *Encoder) assertLoadFrom(r *event.Event) {
	cands := e.candidates(r)
	rTerm := e.rTerms[r.ID()]

	var disjuncts []smt.Term
	var noneOfTheGuards []smt.Term

	for _, w := range cands {
		var guardTerm smt.Term
		if g := w.Guard(); g != nil {
			guardTerm = e.lower(g)
		} else {
			guardTerm = e.backend.Bool(true)
		}
		noneOfTheGuards = append(noneOfTheGuards, e.backend.Not(guardTerm))

		var interveningNots []smt.Term
		for _, w2 := range cands {
			if w2.ID() == w.ID() {
				continue
			}
			if e.hb.happensBefore(w, w2) {
				var g2 smt.Term
				if g := w2.Guard(); g != nil {
					g2 = e.lower(g)
				} else {
					g2 = e.backend.Bool(true)
				}
				interveningNots = append(interveningNots, e.backend.Not(g2))
			}
		}
		noIntervening := e.backend.Bool(true)
		if len(interveningNots) > 0 {
			noIntervening = e.backend.And(interveningNots...)
		}

		disjuncts = append(disjuncts, e.backend.And(guardTerm, noIntervening, e.backend.Eq(rTerm, e.wTerms[w.ID()])))
	}

	initTerm := e.initialValue(r)
	noneGuard := e.backend.Bool(true)
	if len(noneOfTheGuards) > 0 {
		noneGuard = e.backend.And(noneOfTheGuards...)
	}
	disjuncts = append(disjuncts, e.backend.And(noneGuard, e.backend.Eq(rTerm, initTerm)))

	e.backend.Assert(e.backend.Or(disjuncts...))
}

// initialValue returns the shared constant representing "this address was
// never written before r", one per distinct address so that several reads
// of an untouched location agree with each other.
func (e *Encoder) initialValue(r *event.Event) smt.Term {
	key := addrKey(r.Addr())
	if t, ok := e.initial[key]; ok {
		return t
	}
	t := e.backend.FreshConst(sortFor(e.backend, r.Type()), "init_"+key)
	e.initial[key] = t
	return t
}
