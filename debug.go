package popsect

import "unsafe"

// debugCheckBundle runs the precondition checks spec.md §7 says
// implementations "should" perform under debug, but never on the
// production hot path. It panics (wrapping one of the sentinel errors in
// errors.go) on violation.
func debugCheckBundle(words []uint64, nVectors, wordsPerVector int, alignment uint32) {
	need := nVectors * wordsPerVector
	if len(words) < need {
		panic(wrapf(ErrDimensionMismatch, "bundle has %d words, need %d for %d vectors of %d words", len(words), need, nVectors, wordsPerVector))
	}
	if len(words) == 0 {
		return
	}
	if !isAligned(words, alignment) {
		panic(wrapf(ErrMisalignedBundle, "bundle address not aligned to %d bytes", alignment))
	}
}

func isAligned(words []uint64, alignment uint32) bool {
	if alignment <= 8 {
		return true // every Go allocation is already 8-byte aligned
	}
	addr := uintptr(unsafe.Pointer(&words[0]))
	return addr%uintptr(alignment) == 0
}

// debugCheckSparseTable verifies each vector's slice of Positions is
// strictly ascending and within bounds. O(total positions); only ever run
// under debug mode.
func debugCheckSparseTable(popcount, offset, positions []int, wordsPerVector int) {
	m := wordsPerVector * 64
	for i, pc := range popcount {
		start := offset[i]
		prev := -1
		for k := 0; k < pc; k++ {
			p := positions[start+k]
			if p <= prev || p >= m {
				panic(wrapf(ErrNonAscendingPositions, "vector %d: position %d at index %d not strictly ascending within [0,%d)", i, p, k, m))
			}
			prev = p
		}
	}
}
