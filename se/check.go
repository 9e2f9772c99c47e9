package se

import (
	"github.com/kolkov/libse/internal/se/encode"
	"github.com/kolkov/libse/internal/se/smt"
)

// Result is the outcome of Check: whether the recorded scenario's error
// assertions are reachable under some interleaving and variable
// assignment.
type Result = smt.Result

const (
	Unknown = smt.Unknown
	Sat     = smt.Sat
	Unsat   = smt.Unsat
)

// Check lowers everything recorded since the last Threads.Reset onto
// backend and asks it whether any Threads.Error condition is reachable
// (spec.md §6): Sat means yes — the program under test has a satisfying
// race/assertion-violating execution — Unsat means no such execution
// exists within the recorded bound.
func Check(backend smt.Backend) (Result, error) {
	return encode.Encode(driver, backend)
}
