// Package popsect computes the sum of pairwise bitmap-intersection
// cardinalities over a collection of equal-length bit vectors:
//
//	Σ_{i<j} popcount(Vᵢ ∧ Vⱼ)
//
// for N vectors of M bits each. The two public entry points, Intersect and
// IntersectSparse, each detect CPU features once (cached process-wide),
// choose the widest Harley-Seal kernel the host and the vector width
// justify, and sequence kernel calls over all unordered pairs in
// cache-blocked order.
//
// The engine is pure, re-entrant, and safe to call concurrently on disjoint
// inputs; it never writes through a caller's slice and holds no state
// beyond the one-time, idempotent CPU-feature cache (see
// internal/cpufeature).
package popsect

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cristaloleg/popsect/bitset"
	"github.com/cristaloleg/popsect/internal/cpufeature"
	"github.com/cristaloleg/popsect/internal/driver"
	"github.com/cristaloleg/popsect/internal/kernel"
)

var logOnce sync.Once

func logDispatchOnce(f cpufeature.Features) {
	logOnce.Do(func() {
		logrus.WithFields(logrus.Fields{
			"level":       f.Widest().String(),
			"has_popcnt":  f.HasPOPCNT,
			"has_avx2":    f.HasAVX2,
			"has_avx512":  f.HasAVX512BW,
			"has_sse41":   f.HasSSE41,
			"alignment_b": f.Alignment(),
		}).Debug("popsect: dispatch level selected")
	})
}

// minWordsForLevel is the "kernel at lane width L requires W ≥ 16·(L/64)
// words to be worthwhile" constraint from spec.md §4.7: below it, dispatch
// falls through to the next narrower kernel.
func minWordsForLevel(l cpufeature.Level) int {
	return 16 * (l.Width() / 64)
}

func selectLevel(f cpufeature.Features, wordsPerVector int, forced forceLevel) cpufeature.Level {
	switch forced {
	case forceScalar:
		return cpufeature.LevelScalar
	case forceSSE4:
		return cpufeature.LevelSSE4
	case forceAVX2:
		return cpufeature.LevelAVX2
	case forceAVX512:
		return cpufeature.LevelAVX512
	}

	widest := f.Widest()
	for level := widest; level > cpufeature.LevelScalar; level-- {
		if wordsPerVector >= minWordsForLevel(level) {
			return level
		}
	}
	return cpufeature.LevelScalar
}

func pairKernel(level cpufeature.Level, hwPopcnt bool) func(a, b []uint64) uint64 {
	switch level {
	case cpufeature.LevelAVX512:
		return func(a, b []uint64) uint64 { return kernel.HarleySeal512(a, b, hwPopcnt) }
	case cpufeature.LevelAVX2:
		return func(a, b []uint64) uint64 { return kernel.HarleySeal256(a, b, hwPopcnt) }
	case cpufeature.LevelSSE4:
		return func(a, b []uint64) uint64 { return kernel.HarleySeal128(a, b, hwPopcnt) }
	default:
		return func(a, b []uint64) uint64 { return kernel.Scalar(a, b, hwPopcnt) }
	}
}

// RequiredAlignment reports the byte alignment (one of 8, 16, 32, 64) the
// widest kernel the host supports would like its bundle buffers aligned
// to. It is informational only: the engine itself never enforces alignment
// outside of WithDebugChecks(true).
func RequiredAlignment() uint32 {
	return cpufeature.Detect().Alignment()
}

// Intersect returns Σ_{i<j} popcount(Vᵢ ∧ Vⱼ) over the bundle's N vectors.
// Returns 0 if b.NVectors < 2 or b.WordsPerVector == 0 (spec.md §7).
func Intersect(b bitset.Bundle, opts ...Option) uint64 {
	cfg := newConfig(opts)
	features := cpufeature.Detect()
	logDispatchOnce(features)

	if b.NVectors < 2 || b.WordsPerVector == 0 {
		return 0
	}
	if cfg.debugChecks {
		debugCheckBundle(b.Words, b.NVectors, b.WordsPerVector, features.Alignment())
	}

	level := selectLevel(features, b.WordsPerVector, cfg.forceLevel)
	kern := pairKernel(level, features.HasPOPCNT)
	blockSize := cfg.blockSize
	if blockSize <= 0 {
		blockSize = driver.DefaultBlockSize(b.WordsPerVector)
	}

	return driver.AllPairs(b.NVectors, blockSize, func(i, j int) uint64 {
		return kern(b.Vector(i), b.Vector(j))
	})
}

// IntersectSparse returns the same sum as Intersect, but for each pair
// (i,j) where either vector's popcount is below cutoff, it dispatches to
// the sparse positional kernel instead of the dense Harley-Seal kernel.
// The two must agree bit-for-bit for any cutoff (spec.md §8, property 2);
// the cutoff is applied uniformly, including in the driver's residual
// tile, per spec.md §9's resolution of that Open Question.
func IntersectSparse(b bitset.Bundle, t bitset.SparseTable, cutoff int, opts ...Option) uint64 {
	cfg := newConfig(opts)
	features := cpufeature.Detect()
	logDispatchOnce(features)

	if b.NVectors < 2 || b.WordsPerVector == 0 {
		return 0
	}
	if cfg.debugChecks {
		debugCheckBundle(b.Words, b.NVectors, b.WordsPerVector, features.Alignment())
		debugCheckSparseTable(t.Popcount, t.Offset, t.Positions, b.WordsPerVector)
	}

	level := selectLevel(features, b.WordsPerVector, cfg.forceLevel)
	dense := pairKernel(level, features.HasPOPCNT)
	blockSize := cfg.blockSize
	if blockSize <= 0 {
		blockSize = driver.DefaultBlockSize(b.WordsPerVector)
	}

	positionsOf := func(i int) []int {
		start := t.Offset[i]
		return t.Positions[start : start+t.Popcount[i]]
	}

	return driver.AllPairs(b.NVectors, blockSize, func(i, j int) uint64 {
		if t.Popcount[i] < cutoff || t.Popcount[j] < cutoff {
			return kernel.Sparse(b.Vector(i), b.Vector(j), positionsOf(i), positionsOf(j))
		}
		return dense(b.Vector(i), b.Vector(j))
	})
}
