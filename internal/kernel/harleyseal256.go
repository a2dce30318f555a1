package kernel

// lane256 models a 256-bit SIMD register (AVX2) as four 64-bit sub-lanes.
type lane256 [4]uint64

func csa256(a, b, c lane256) (h, l lane256) {
	for k := range a {
		u := a[k] ^ b[k]
		h[k] = (a[k] & b[k]) | (u & c[k])
		l[k] = u ^ c[k]
	}
	return h, l
}

func andLane256(a, b []uint64, i int) lane256 {
	return lane256{a[i] & b[i], a[i+1] & b[i+1], a[i+2] & b[i+2], a[i+3] & b[i+3]}
}

func addLane256(a, b lane256) lane256 {
	var r lane256
	for k := range r {
		r[k] = a[k] + b[k]
	}
	return r
}

// popcntLane256 counts set bits per 64-bit sub-lane. A real AVX2 target has
// no native SIMD popcount, so production code (e.g. the AVX2 path in
// go-highway's bitops_avx2.go) round-trips through scalar popcount per
// lane; doing the same thing here is both exact and literal, per spec.md
// §4.2's nibble-lookup-or-equivalent freedom.
func popcntLane256(v lane256, hwPopcnt bool) lane256 {
	var r lane256
	for k := range v {
		r[k] = Popcnt64(v[k], hwPopcnt)
	}
	return r
}

func sumLane256(v lane256) uint64 {
	var s uint64
	for _, x := range v {
		s += x
	}
	return s
}

// HarleySeal256 computes popcount(a ∧ b) using a 16-way carry-save-adder
// reduction tree over 256-bit (4-word) blocks, per spec.md §4.4.
func HarleySeal256(a, b []uint64, hwPopcnt bool) uint64 {
	const groupWords = 4
	size := len(a) / groupWords
	if size == 0 {
		return Scalar(a, b, hwPopcnt)
	}

	var ones, twos, fours, eights, sixteens lane256
	var cnt lane256

	block := func(blockIdx int) lane256 {
		return andLane256(a, b, blockIdx*groupWords)
	}

	i := 0
	limit := size - size%16
	for ; i < limit; i += 16 {
		var twosA, twosB, foursA, foursB, eightsA, eightsB lane256

		twosA, ones = csa256(ones, block(i+0), block(i+1))
		twosB, ones = csa256(ones, block(i+2), block(i+3))
		foursA, twos = csa256(twos, twosA, twosB)
		twosA, ones = csa256(ones, block(i+4), block(i+5))
		twosB, ones = csa256(ones, block(i+6), block(i+7))
		foursB, twos = csa256(twos, twosA, twosB)
		eightsA, fours = csa256(fours, foursA, foursB)
		twosA, ones = csa256(ones, block(i+8), block(i+9))
		twosB, ones = csa256(ones, block(i+10), block(i+11))
		foursA, twos = csa256(twos, twosA, twosB)
		twosA, ones = csa256(ones, block(i+12), block(i+13))
		twosB, ones = csa256(ones, block(i+14), block(i+15))
		foursB, twos = csa256(twos, twosA, twosB)
		eightsB, fours = csa256(fours, foursA, foursB)
		sixteens, eights = csa256(eights, eightsA, eightsB)

		cnt = addLane256(cnt, popcntLane256(sixteens, hwPopcnt))
	}

	result := sumLane256(cnt) * 16
	result += sumLane256(popcntLane256(eights, hwPopcnt)) * 8
	result += sumLane256(popcntLane256(fours, hwPopcnt)) * 4
	result += sumLane256(popcntLane256(twos, hwPopcnt)) * 2
	result += sumLane256(popcntLane256(ones, hwPopcnt))

	for ; i < size; i++ {
		result += sumLane256(popcntLane256(block(i), hwPopcnt))
	}

	for w := size * groupWords; w < len(a); w++ {
		result += Popcnt64(a[w]&b[w], hwPopcnt)
	}

	return result
}
