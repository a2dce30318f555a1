package kernel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naivePopcount is the oracle: popcount(a[i]&b[i]) summed one word at a
// time, written without any unrolling or accumulation trick, so bugs shared
// between Scalar and naivePopcount would have to be coincidental.
func naivePopcount(a, b []uint64) uint64 {
	var total uint64
	for i := range a {
		x := a[i] & b[i]
		for x != 0 {
			total++
			x &= x - 1
		}
	}
	return total
}

func randomWords(n int, rng *rand.Rand) []uint64 {
	w := make([]uint64, n)
	for i := range w {
		w[i] = rng.Uint64()
	}
	return w
}

func TestScalarAgainstOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 16, 17, 63, 64, 65, 200} {
		a := randomWords(n, rng)
		b := randomWords(n, rng)
		want := naivePopcount(a, b)
		assert.Equal(t, want, Scalar(a, b, true), "n=%d hwPopcnt=true", n)
		assert.Equal(t, want, Scalar(a, b, false), "n=%d hwPopcnt=false", n)
	}
}

// TestScalarTailAdds pins down the S4/S6 regression: a residual of more
// than one word must contribute the sum of all of them, not just the last.
// An assigning tail (`count = Popcnt64(...)`) would make this fail for any
// n%4 >= 2 case where the earlier residual words are nonzero.
func TestScalarTailAdds(t *testing.T) {
	// n=6: main loop consumes words[0:4], tail is words[4:6]. Both tail
	// words set distinguishable, nonzero bits.
	a := []uint64{0, 0, 0, 0, 0b1010, 0b1111}
	b := []uint64{0, 0, 0, 0, 0b1111, 0b1111}
	// tail contributes popcount(0b1010)=2 + popcount(0b1111)=4 = 6
	require.Equal(t, uint64(6), Scalar(a, b, true))
	require.Equal(t, uint64(6), Scalar(a, b, false))
}

func TestPopcnt64HWMatchesSWAR(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		x := rng.Uint64()
		assert.Equal(t, Popcnt64(x, true), Popcnt64(x, false))
	}
	assert.Equal(t, uint64(0), Popcnt64(0, true))
	assert.Equal(t, uint64(64), Popcnt64(^uint64(0), true))
	assert.Equal(t, uint64(64), Popcnt64(^uint64(0), false))
}

func TestHarleySealKernelsAgainstScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	kernels := map[string]func(a, b []uint64, hw bool) uint64{
		"128": HarleySeal128,
		"256": HarleySeal256,
		"512": HarleySeal512,
	}
	sizes := []int{0, 1, 2, 3, 4, 7, 8, 15, 16, 17, 31, 32, 33, 63, 64, 65, 127, 128, 129, 257, 513}
	for name, kern := range kernels {
		for _, n := range sizes {
			a := randomWords(n, rng)
			b := randomWords(n, rng)
			want := Scalar(a, b, true)
			for _, hw := range []bool{true, false} {
				got := kern(a, b, hw)
				assert.Equal(t, want, got, "kernel=%s n=%d hwPopcnt=%v", name, n, hw)
			}
		}
	}
}

func TestKernelsCommutative(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randomWords(200, rng)
	b := randomWords(200, rng)
	assert.Equal(t, Scalar(a, b, true), Scalar(b, a, true))
	assert.Equal(t, HarleySeal256(a, b, true), HarleySeal256(b, a, true))
}

func TestKernelsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := randomWords(130, rng)
	allOnes := make([]uint64, 130)
	for i := range allOnes {
		allOnes[i] = ^uint64(0)
	}
	assert.Equal(t, naivePopcount(a, allOnes), Scalar(a, allOnes, true))
	assert.Equal(t, naivePopcount(a, allOnes), HarleySeal128(a, allOnes, true))
}

func TestKernelsAnnihilator(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	a := randomWords(130, rng)
	zero := make([]uint64, 130)
	assert.Equal(t, uint64(0), Scalar(a, zero, true))
	assert.Equal(t, uint64(0), HarleySeal512(a, zero, true))
}

func TestKernelsAdditiveOverDisjointSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 201
	a := randomWords(n, rng)
	b := randomWords(n, rng)
	for _, split := range []int{0, 1, 7, 64, 100, 200, 201} {
		whole := HarleySeal256(a, b, true)
		left := HarleySeal256(a[:split], b[:split], true)
		right := HarleySeal256(a[split:], b[split:], true)
		assert.Equal(t, whole, left+right, "split=%d", split)
	}
}

func TestSparseEqualsDense(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, n := range []int{1, 2, 5, 10, 64, 130} {
		a := randomWords(n, rng)
		b := randomWords(n, rng)
		posA := positionsOf(a)
		posB := positionsOf(b)
		want := Scalar(a, b, true)
		assert.Equal(t, want, Sparse(a, b, posA, posB), "n=%d", n)
		assert.Equal(t, want, Sparse(b, a, posB, posA), "n=%d swapped", n)
	}
}

func positionsOf(words []uint64) []int {
	var pos []int
	for w, word := range words {
		for bit := 0; bit < 64; bit++ {
			if word&(1<<uint(bit)) != 0 {
				pos = append(pos, w*64+bit)
			}
		}
	}
	return pos
}
