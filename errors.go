package popsect

import (
	"fmt"

	"github.com/pkg/errors"
)

// Precondition violations are contracts, not returned errors (spec.md §7):
// the public API never returns one of these. They exist only for the
// debug-check path (WithDebugChecks / POPSECT_DEBUG_CHECKS=1), which panics
// with a wrapped sentinel so a recovering caller can classify the failure
// the way moby-moby/errdefs classifies its own sentinel error kinds.
var (
	// ErrDimensionMismatch means a bundle's Words slice is shorter than
	// NVectors*WordsPerVector.
	ErrDimensionMismatch = errors.New("popsect: operand dimension mismatch")

	// ErrMisalignedBundle means a bundle's backing slice does not start
	// at the alignment RequiredAlignment() reports (that of the widest
	// kernel the host supports, whichever kernel the call dispatches to).
	// Only ever checked under debug mode; spec.md §7 treats this
	// as undefined behavior otherwise.
	ErrMisalignedBundle = errors.New("popsect: bundle not aligned to required boundary")

	// ErrNonAscendingPositions means a SparseTable's Positions slice is not
	// strictly ascending within a vector's range, or contains a position
	// ≥ M. Only checked under debug mode.
	ErrNonAscendingPositions = errors.New("popsect: sparse positions not strictly ascending")
)

// isDimensionMismatch reports whether err is (or wraps) ErrDimensionMismatch.
func isDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}

// IsDimensionMismatch reports whether err is, or wraps, ErrDimensionMismatch.
// A debug-checked call panics with one of the three sentinels in this file
// rather than returning an error (spec.md §7); callers that recover from
// such a panic (e.g. the popsectctl CLI) use this family of classifiers to
// decide how to report it, the way moby-moby/errdefs classifies its own
// sentinel kinds.
func IsDimensionMismatch(err error) bool {
	return isDimensionMismatch(err)
}

// IsMisalignedBundle reports whether err is, or wraps, ErrMisalignedBundle.
func IsMisalignedBundle(err error) bool {
	return errors.Is(err, ErrMisalignedBundle)
}

// IsNonAscendingPositions reports whether err is, or wraps,
// ErrNonAscendingPositions.
func IsNonAscendingPositions(err error) bool {
	return errors.Is(err, ErrNonAscendingPositions)
}

func wrapf(base error, format string, args ...any) error {
	return errors.Wrap(base, fmt.Sprintf(format, args...))
}
