// Package zone implements the opaque memory-address identity used by the
// recording engine's load-from/alias analysis.
//
// Two addresses are definitely distinct iff their zone-sets are disjoint, and
// may-alias otherwise. Zone never models heap layout or allocation — it only
// tracks which pointer identities a given address could denote, per
// spec.md §3 and §4.D.
package zone

import (
	"sync/atomic"

	"github.com/hashicorp/go-set/v3"
)

// nextPtr hands out fresh synthetic pointer identities for Unique(), so
// callers never have to supply a real Go pointer just to get a distinct
// zone. Reset alongside event ids between recordings.
var nextPtr atomic.Uintptr

// Reset restarts pointer-identity allocation at base. Used between
// recordings (mirrors event.Reset) so ids are reproducible in tests.
func Reset(base uintptr) {
	nextPtr.Store(base)
}

// Zone identifies a storage location as a non-empty set of pointer
// identities. Aliasing is reflexive and symmetric by construction; zone-sets
// are monotone under Union.
type Zone struct {
	ptrs *set.Set[uintptr]
}

// Unique returns a fresh zone with a single, never-before-used pointer
// identity.
func Unique() Zone {
	p := nextPtr.Add(1)
	return Zone{ptrs: set.From([]uintptr{p})}
}

// Of wraps an explicit pointer identity (e.g. a real Go pointer converted via
// unsafe, or a deterministic identity derived from a variable's declaration
// site) as a single-element zone. Used when a Var[T] is configured with an
// explicit address instead of an identity-derived one.
func Of(ptr uintptr) Zone {
	return Zone{ptrs: set.From([]uintptr{ptr})}
}

// Union returns an address whose zone-set is the union of a and b's. Used
// when a shared variable's address is derived from more than one
// contributing identity (e.g. a union member or an indexed element whose
// index is symbolic).
func Union(a, b Zone) Zone {
	return Zone{ptrs: a.ptrs.Union(b.ptrs)}
}

// MayAlias reports whether a and b could denote the same storage location,
// i.e. whether their zone-sets intersect. This is the basis of the encoder's
// load-from relation (spec.md §4.D).
func MayAlias(a, b Zone) bool {
	return !a.ptrs.Intersect(b.ptrs).Empty()
}

// Ptrs returns the constituent pointer identities, for diagnostics and
// testing only.
func (z Zone) Ptrs() []uintptr {
	return z.ptrs.Slice()
}
