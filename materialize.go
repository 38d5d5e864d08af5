package supermaxrep

import "sort"

// materialize turns the selected intervals with at least minOcc occurrences
// into matches. The representative occurrence is SA[lo], the lexicographically
// first suffix of the interval.
func materialize(selected []interval, sa []int32, st *stream, minOcc int) []Match {
	matches := make([]Match, 0, len(selected))
	for _, iv := range selected {
		if iv.occurrences() < minOcc {
			continue
		}

		doc, start := st.locate(int(sa[iv.lo]))
		locs := make([]Location, 0, iv.occurrences())
		for k := iv.lo; k <= iv.hi; k++ {
			d, s := st.locate(int(sa[k]))
			locs = append(locs, Location{DocIdx: d, Start: s})
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].DocIdx != locs[j].DocIdx {
				return locs[i].DocIdx < locs[j].DocIdx
			}
			return locs[i].Start < locs[j].Start
		})

		matches = append(matches, Match{
			Repeat: Repeat{
				DocIdx:      doc,
				Start:       start,
				Len:         iv.depth,
				Occurrences: iv.occurrences(),
				Text:        st.u.text(doc, start, iv.depth),
			},
			Locations: locs,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i].Repeat, matches[j].Repeat
		if a.DocIdx != b.DocIdx {
			return a.DocIdx < b.DocIdx
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Len < b.Len
	})
	return matches
}
