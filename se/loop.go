package se

import (
	"github.com/kolkov/libse/internal/se/loop"
	"github.com/kolkov/libse/internal/se/smt"
)

// Loop bounds how many times a recorded while-loop unwinds (spec.md §6,
// §10). See internal/se/loop for the unwinding semantics; this is a thin
// re-export so scenario code never has to import internal/se/loop directly.
type Loop = loop.Loop

// NewLoop returns a Loop that unwinds at most bound times, consulting a
// fresh backend from newBackend on every Unwind call to stop early once
// that call's condition is no longer satisfiable. Pass nil to skip the
// satisfiability check and rely on bound alone.
func NewLoop(bound int, newBackend func() smt.Backend) *Loop {
	return loop.New(bound, newBackend)
}
