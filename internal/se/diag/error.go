// Package diag provides the recording engine's error classification and
// stack-capture helpers (spec.md §7).
//
// Recoverable errors (a bad argument such as se.NewVarAt's zero address, or
// an operation called in the wrong state such as encode.Encode on an
// unclosed recording) are classified with github.com/containerd/errdefs
// sentinels rather than matched by message string, so callers (and this
// module's own tests) can branch on error kind with the Is* helpers below
// instead of substring checks. Construction and encoding invariant
// violations (guard mismatch, null write instruction, Pop on an empty
// stack, and friends) stay as panics with a plain message: spec.md §7 treats those as
// programming errors, not recoverable conditions, and panic is the "fatal
// means fatal" convention this module follows for invariant breaks.
package diag

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// InvalidArgument formats a new error marking it as caused by a bad
// argument from the caller, for callers (and tests) to branch on with
// IsInvalidArgument rather than a message substring check.
func InvalidArgument(format string, args ...any) error {
	return errdefs.ErrInvalidArgument(fmt.Errorf(format, args...))
}

// FailedPrecondition formats a new error marking it as caused by calling
// an operation when the recording engine isn't in the right state for it —
// internal/se/encode.Encode on a recording whose brackets never closed, or
// internal/se/smt/reftest.Backend.Check asked to enumerate an oversized
// search space.
func FailedPrecondition(format string, args ...any) error {
	return errdefs.ErrFailedPrecondition(fmt.Errorf(format, args...))
}

// IsInvalidArgument reports whether err was produced by InvalidArgument (or
// wraps one).
func IsInvalidArgument(err error) bool {
	return errdefs.IsInvalidArgument(err)
}

// IsFailedPrecondition reports whether err was produced by
// FailedPrecondition (or wraps one).
func IsFailedPrecondition(err error) bool {
	return errdefs.IsFailedPrecondition(err)
}
