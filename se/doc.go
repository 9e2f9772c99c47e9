// Package se is the public surface of the recording-based symbolic
// execution engine (spec.md, all sections). A program under test is
// rewritten to drive se values instead of plain Go scalars; the result is
// an acyclic DAG of symbolic events that Check lowers to an SMT query
// instead of running concretely.
//
// Two value kinds cover the two things a program computes:
//
//   - Sym[T] is purely symbolic: no recorder observes it, used for values
//     a thread never shares (a loop bound, a local computation). See
//     sym.go.
//   - Var[T] is a concurrently shared variable: every Read/Assign produces
//     an event against the currently active thread, tracked by the
//     package-level driver. See var.go.
//
// Threads brackets a recording's structure (BeginMainThread/BeginThread/
// EndThread/EndMainThread), Loop bounds symbolic while-loops, and Check
// hands the finished recording to an internal/se/smt.Backend — the
// internal/se/smt/reftest package provides one suitable for tests and
// small scenarios; a production SMT solver binding satisfies the same
// interface.
//
// A typical scenario (grounded on
// original_source/bench/fib_006_safe_bench.cpp):
//
//	se.Threads.Reset()
//	se.Threads.BeginMainThread()
//	i := se.NewVar[int32](0)
//	j := se.NewVar[int32](1)
//	se.Threads.BeginThread()
//	i.Assign(i.Add(j.Read()))
//	se.Threads.EndThread()
//	j.Assign(j.Add(i.Read()))
//	se.Threads.Error(i.Read().Gtr(se.Lit[int32](377)))
//	se.Threads.EndMainThread()
//	result, err := se.Check(reftest.New(0))
package se
