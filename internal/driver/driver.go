// Package driver sequences kernel calls over all unordered vector pairs in
// cache-blocked order, per spec.md §4.6. It is deliberately kernel-agnostic:
// the dense driver takes a `func(i, j int) uint64` pair evaluator, so the
// same iteration order serves both the plain dense kernel and the
// sparse-aware per-pair cutoff dispatch in the root package.
package driver

// DefaultBlockSize mirrors original_source's FIC_DEFAULT_BLOCK/(w*8): the
// number of vectors whose combined working set approximates a 256,000-byte
// L2 budget, clamped to at least 1.
func DefaultBlockSize(wordsPerVector int) int {
	const budgetBytes = 256_000
	if wordsPerVector <= 0 {
		return 1
	}
	b := budgetBytes / (wordsPerVector * 8)
	if b < 1 {
		return 1
	}
	return b
}

// Eval is a single pairwise kernel evaluation, i < j.
type Eval func(i, j int) uint64

// AllPairs sums eval(i, j) over every unordered pair i<j of the nVectors
// vectors, visiting a B-sized diagonal tile, the square tiles to its right,
// a right residual strip, and (after all full strips) a bottom residual —
// exactly original_source's c_fwrapper_blocked/c_flwrapper_blocked
// iteration order. Every pair is visited exactly once; (i,i) is never
// visited; B==0 is remapped to 3.
func AllPairs(nVectors int, blockSize int, eval Eval) uint64 {
	if nVectors < 2 {
		return 0
	}
	if blockSize == 0 {
		blockSize = 3
	}

	var total uint64
	i := 0
	for ; i+blockSize <= nVectors; i += blockSize {
		// Diagonal tile: all pairs within [i, i+blockSize).
		for j := 0; j < blockSize; j++ {
			for jj := j + 1; jj < blockSize; jj++ {
				total += eval(i+j, i+jj)
			}
		}

		// Square tiles: every later full strip crossed against this one.
		curi := i
		j := curi + blockSize
		for ; j+blockSize <= nVectors; j += blockSize {
			for ii := 0; ii < blockSize; ii++ {
				for jj := 0; jj < blockSize; jj++ {
					total += eval(curi+ii, j+jj)
				}
			}
		}

		// Right residual: this strip crossed against the trailing tail
		// that doesn't fill a whole strip.
		for ; j < nVectors; j++ {
			for jj := 0; jj < blockSize; jj++ {
				total += eval(curi+jj, j)
			}
		}
	}

	// Bottom residual: direct double loop over whatever tail is left once
	// no full strip remains.
	for ; i < nVectors; i++ {
		for j := i + 1; j < nVectors; j++ {
			total += eval(i, j)
		}
	}

	return total
}
