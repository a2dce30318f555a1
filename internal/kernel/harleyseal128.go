package kernel

// lane128 models a 128-bit SIMD register as two 64-bit sub-lanes, the unit
// the 128-bit Harley-Seal kernel operates on.
type lane128 [2]uint64

// csa128 is the carry-save adder primitive at 128-bit width: pure bitwise,
// no branches, per spec.md §4.3.
func csa128(a, b, c lane128) (h, l lane128) {
	for k := range a {
		u := a[k] ^ b[k]
		h[k] = (a[k] & b[k]) | (u & c[k])
		l[k] = u ^ c[k]
	}
	return h, l
}

func andLane128(a, b []uint64, i int) lane128 {
	return lane128{a[i] & b[i], a[i+1] & b[i+1]}
}

func addLane128(a, b lane128) lane128 {
	return lane128{a[0] + b[0], a[1] + b[1]}
}

func popcntLane128(v lane128, hwPopcnt bool) lane128 {
	var r lane128
	for k := range v {
		r[k] = Popcnt64(v[k], hwPopcnt)
	}
	return r
}

func sumLane128(v lane128) uint64 {
	return v[0] + v[1]
}

// HarleySeal128 computes popcount(a ∧ b) using a 16-way carry-save-adder
// reduction tree over 128-bit (2-word) blocks, per spec.md §4.4. a and b
// must have equal length; len(a) need not be a multiple of 2 or 32 — both
// the 128-bit-block tail and the final odd word (if len(a) is odd) are
// handled by plain accumulation, not a shortcut.
func HarleySeal128(a, b []uint64, hwPopcnt bool) uint64 {
	const groupWords = 2
	size := len(a) / groupWords
	if size == 0 {
		return Scalar(a, b, hwPopcnt)
	}

	var ones, twos, fours, eights, sixteens lane128
	var cnt lane128

	block := func(blockIdx int) lane128 {
		return andLane128(a, b, blockIdx*groupWords)
	}

	i := 0
	limit := size - size%16
	for ; i < limit; i += 16 {
		var twosA, twosB, foursA, foursB, eightsA, eightsB lane128

		twosA, ones = csa128(ones, block(i+0), block(i+1))
		twosB, ones = csa128(ones, block(i+2), block(i+3))
		foursA, twos = csa128(twos, twosA, twosB)
		twosA, ones = csa128(ones, block(i+4), block(i+5))
		twosB, ones = csa128(ones, block(i+6), block(i+7))
		foursB, twos = csa128(twos, twosA, twosB)
		eightsA, fours = csa128(fours, foursA, foursB)
		twosA, ones = csa128(ones, block(i+8), block(i+9))
		twosB, ones = csa128(ones, block(i+10), block(i+11))
		foursA, twos = csa128(twos, twosA, twosB)
		twosA, ones = csa128(ones, block(i+12), block(i+13))
		twosB, ones = csa128(ones, block(i+14), block(i+15))
		foursB, twos = csa128(twos, twosA, twosB)
		eightsB, fours = csa128(fours, foursA, foursB)
		sixteens, eights = csa128(eights, eightsA, eightsB)

		cnt = addLane128(cnt, popcntLane128(sixteens, hwPopcnt))
	}

	result := sumLane128(cnt) * 16
	result += sumLane128(popcntLane128(eights, hwPopcnt)) * 8
	result += sumLane128(popcntLane128(fours, hwPopcnt)) * 4
	result += sumLane128(popcntLane128(twos, hwPopcnt)) * 2
	result += sumLane128(popcntLane128(ones, hwPopcnt))

	for ; i < size; i++ {
		result += sumLane128(popcntLane128(block(i), hwPopcnt))
	}

	for w := size * groupWords; w < len(a); w++ {
		result += Popcnt64(a[w]&b[w], hwPopcnt)
	}

	return result
}
