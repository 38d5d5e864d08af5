package supermaxrep

// interval is an LCP interval: the suffixes SA[lo..hi] share a prefix of
// exactly depth units, and no wider range shares one that long. Each interval
// is one internal node of the implicit suffix tree.
type interval struct {
	depth int
	lo    int
	hi    int
}

func (iv interval) occurrences() int {
	return iv.hi - iv.lo + 1
}

// extractIntervals enumerates the LCP intervals bottom-up with a monotonic
// stack, children before their parents. Intervals shallower than minLen are
// dropped as they are popped.
func extractIntervals(lcp []int32, minLen int) []interval {
	n := len(lcp)
	var out []interval
	stack := []interval{{depth: 0, lo: 0}}

	for i := 1; i <= n; i++ {
		cur := 0
		if i < n {
			cur = int(lcp[i])
		}
		lo := i - 1
		for cur < stack[len(stack)-1].depth {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.hi = i - 1
			if top.depth >= minLen {
				out = append(out, top)
			}
			lo = top.lo
		}
		if cur > stack[len(stack)-1].depth {
			stack = append(stack, interval{depth: cur, lo: lo})
		}
	}
	return out
}
