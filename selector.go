package supermaxrep

import "sort"

// selectSupermaximal drops every maximal repeat that is a substring of a
// longer one. Candidates are visited longest first; reach[p] holds the
// furthest end of an accepted occurrence span covering position p, so an
// occurrence [p, p+d) lies inside an accepted span iff reach[p] >= p+d.
//
// Every maximal repeat containing a candidate is longer than it and was
// therefore visited first. If that repeat was itself rejected it sits inside a
// longer accepted one, whose spans cover the candidate's occurrence as well.
func selectSupermaximal(maximal []interval, sa []int32, streamLen int) []interval {
	order := make([]interval, len(maximal))
	copy(order, maximal)
	sort.Slice(order, func(i, j int) bool {
		if order[i].depth != order[j].depth {
			return order[i].depth > order[j].depth
		}
		return order[i].lo < order[j].lo
	})

	reach := make([]int32, streamLen)
	var accepted []interval
	for _, iv := range order {
		covered := false
		for k := iv.lo; k <= iv.hi; k++ {
			p := sa[k]
			if reach[p] >= p+int32(iv.depth) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		accepted = append(accepted, iv)
		for k := iv.lo; k <= iv.hi; k++ {
			p := sa[k]
			end := p + int32(iv.depth)
			for q := p; q < end; q++ {
				if reach[q] < end {
					reach[q] = end
				}
			}
		}
	}
	return accepted
}
