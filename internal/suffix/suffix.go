// Package suffix builds a suffix array and LCP array over an integer unit stream.
//
// The stream is opaque: any int32 values may appear. Callers that concatenate
// several sequences terminate each one with a value that occurs nowhere else, so
// no common prefix can run across a boundary.
package suffix

import "sort"

// Index holds the suffix array of a unit stream and the LCP array between
// lexicographically adjacent suffixes. LCP[0] is always 0.
type Index struct {
	SA  []int32
	LCP []int32
}

// New computes the suffix array and LCP array of units.
func New(units []int32) *Index {
	sa := computeSA(units)
	return &Index{
		SA:  sa,
		LCP: computeLCP(units, sa),
	}
}

// Len returns the number of suffixes in the index.
func (x *Index) Len() int {
	return len(x.SA)
}

// denseRanks maps every unit to its rank among the distinct unit values.
// Returns the ranks and the number of distinct values.
func denseRanks(units []int32) ([]int32, int) {
	values := make([]int32, len(units))
	copy(values, units)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	distinct := values[:0]
	for i, v := range values {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}

	ranks := make([]int32, len(units))
	for i, u := range units {
		ranks[i] = int32(sort.Search(len(distinct), func(j int) bool { return distinct[j] >= u }))
	}
	return ranks, len(distinct)
}

// computeSA sorts suffixes by prefix doubling. Each round orders suffixes by
// their first 2k units using two stable counting-sort passes over the ranks of
// the previous round, so the whole construction is O(n log n).
func computeSA(units []int32) []int32 {
	n := len(units)
	sa := make([]int32, n)
	if n == 0 {
		return sa
	}

	rank, classes := denseRanks(units)
	size := classes
	if n > size {
		size = n
	}
	count := make([]int32, size+1)

	// Initial order by the first unit.
	for _, r := range rank {
		count[r+1]++
	}
	for i := 1; i <= size; i++ {
		count[i] += count[i-1]
	}
	for i := 0; i < n; i++ {
		r := rank[i]
		sa[count[r]] = int32(i)
		count[r]++
	}

	tmp := make([]int32, n)
	next := make([]int32, n)
	for k := 1; classes < n; k <<= 1 {
		// Order by second key: suffixes shorter than k have an empty second
		// half and come first, the rest follow in the current order.
		p := 0
		for i := n - k; i < n; i++ {
			tmp[p] = int32(i)
			p++
		}
		for _, s := range sa {
			if int(s) >= k {
				tmp[p] = s - int32(k)
				p++
			}
		}

		// Stable counting sort by first key.
		for i := range count {
			count[i] = 0
		}
		for _, r := range rank {
			count[r+1]++
		}
		for i := 1; i <= size; i++ {
			count[i] += count[i-1]
		}
		for _, s := range tmp {
			r := rank[s]
			sa[count[r]] = s
			count[r]++
		}

		// Re-rank by the (first, second) pair.
		next[sa[0]] = 0
		classes = 1
		for i := 1; i < n; i++ {
			a, b := int(sa[i-1]), int(sa[i])
			if rank[a] != rank[b] || secondKey(rank, a+k) != secondKey(rank, b+k) {
				classes++
			}
			next[b] = int32(classes - 1)
		}
		rank, next = next, rank
	}
	return sa
}

func secondKey(rank []int32, i int) int32 {
	if i >= len(rank) {
		return -1
	}
	return rank[i]
}

// computeLCP implements Kasai's algorithm.
func computeLCP(units []int32, sa []int32) []int32 {
	n := len(sa)
	lcp := make([]int32, n)
	if n == 0 {
		return lcp
	}

	rank := make([]int32, n)
	for i, s := range sa {
		rank[s] = int32(i)
	}

	h := 0
	for i := 0; i < n; i++ {
		r := rank[i]
		if r == 0 {
			h = 0
			continue
		}
		j := int(sa[r-1])
		for i+h < n && j+h < n && units[i+h] == units[j+h] {
			h++
		}
		lcp[r] = int32(h)
		if h > 0 {
			h--
		}
	}
	return lcp
}
