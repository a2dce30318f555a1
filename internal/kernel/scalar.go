package kernel

// Scalar computes popcount(a ∧ b) a 64-bit word at a time, 4-way unrolled
// with a tail, using hardware POPCNT when available. This is both the
// kernel of last resort (no SIMD feature usable, or size() too small to
// amortize wider kernels) and the oracle the SIMD kernels are checked
// against in tests.
//
// a and b must have equal, non-negative length; the two pointers may alias
// (a fed twice yields popcount(a), per spec.md §5's aliasing rule).
func Scalar(a, b []uint64, hwPopcnt bool) uint64 {
	n := len(a)
	limit := n - n%4
	var count uint64
	i := 0
	for ; i < limit; i += 4 {
		count += Popcnt64(a[i+0]&b[i+0], hwPopcnt)
		count += Popcnt64(a[i+1]&b[i+1], hwPopcnt)
		count += Popcnt64(a[i+2]&b[i+2], hwPopcnt)
		count += Popcnt64(a[i+3]&b[i+3], hwPopcnt)
	}
	// The tail must add, not assign: an earlier C variant of this routine
	// assigned here, silently dropping every word but the last of the
	// residue. spec.md §9 flags this explicitly and S4/S6 catch it.
	for ; i < n; i++ {
		count += Popcnt64(a[i]&b[i], hwPopcnt)
	}
	return count
}
