// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"math"
	"math/bits"
)

// permCount returns n! saturated at the maximum uint64. Ranks are uint64, so
// factorials past 20! only ever need to compare larger than any possible
// rank; their exact value is irrelevant.
func permCount(n int) uint64 {
	f := uint64(1)
	for i := 2; i <= n; i++ {
		hi, lo := bits.Mul64(f, uint64(i))
		if hi != 0 {
			return math.MaxUint64
		}
		f = lo
	}
	return f
}

// identityPerm returns [0 1 ... n-1], the rank zero ordering.
func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// nextPerm advances p to its lexicographic successor in place. It returns
// false once p is the final, fully descending ordering.
func nextPerm(p []int) bool {
	k := len(p) - 2
	for k >= 0 && p[k] >= p[k+1] {
		k--
	}
	if k < 0 {
		return false
	}
	l := len(p) - 1
	for p[l] <= p[k] {
		l--
	}
	p[k], p[l] = p[l], p[k]
	for i, j := k+1, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return true
}

// permutationAtRank returns the ordering of n elements at the given rank of
// the lexicographic enumeration, by factorial number system: position i
// takes the (rank / (n-1-i)!)-th smallest of the indices still unused.
// Callers keep rank below permCount(n); for n of 21 and up the suffix
// factorials exceed any uint64 rank, so those leading positions always take
// the smallest remaining index.
func permutationAtRank(n int, rank uint64) []int {
	p := identityPerm(n)
	for i := 0; i < n-1; i++ {
		f := permCount(n - 1 - i)
		if f == math.MaxUint64 {
			continue
		}
		idx := int(rank / f)
		rank %= f
		if idx == 0 {
			continue
		}
		// pull the chosen index forward; the suffix stays sorted
		v := p[i+idx]
		copy(p[i+1:i+idx+1], p[i:i+idx])
		p[i] = v
	}
	return p
}
