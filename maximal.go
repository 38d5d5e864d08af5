package supermaxrep

import "sync"

// parallelThreshold is the stream length below which the BWT column is built
// on the calling goroutine.
const parallelThreshold = 1 << 16

// bwtColumn returns, for every suffix rank k, the unit preceding SA[k] or the
// start marker of its document.
func bwtColumn(sa []int32, st *stream, workers int) []int32 {
	prev := st.predecessors()
	bwt := make([]int32, len(sa))

	if workers <= 1 || len(sa) < parallelThreshold {
		for k, p := range sa {
			bwt[k] = prev[p]
		}
		return bwt
	}

	chunkSize := (len(sa) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(sa) {
			break
		}
		end := min(start+chunkSize, len(sa))

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				bwt[k] = prev[sa[k]]
			}
		}(start, end)
	}
	wg.Wait()
	return bwt
}

// filterLeftMaximal keeps the intervals whose occurrences are not all preceded
// by the same unit, preserving input order. changes[k] counts the ranks in
// 1..k whose BWT entry differs from the previous rank's, so an interval is
// left-maximal iff changes[hi] > changes[lo]. Right-maximality holds for every
// LCP interval by construction.
func filterLeftMaximal(intervals []interval, sa []int32, st *stream, workers int) []interval {
	if len(intervals) == 0 {
		return nil
	}
	bwt := bwtColumn(sa, st, workers)

	changes := make([]int32, len(bwt))
	for k := 1; k < len(bwt); k++ {
		changes[k] = changes[k-1]
		if bwt[k] != bwt[k-1] {
			changes[k]++
		}
	}

	var out []interval
	for _, iv := range intervals {
		if changes[iv.hi] > changes[iv.lo] {
			out = append(out, iv)
		}
	}
	return out
}
