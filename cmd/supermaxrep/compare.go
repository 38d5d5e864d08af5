package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asynkron/supermaxrep"
)

// GroupStats describes how repeats touch one group of documents
type GroupStats struct {
	Pattern      string   `json:"pattern"`
	Documents    int      `json:"documents"`
	Units        int      `json:"units"`
	Repeats      int      `json:"repeats"`
	Occurrences  int      `json:"occurrences"`
	CoveredUnits int      `json:"covered_units"`
	texts        []string // distinct repeat texts seen in the group
}

// Coverage is the share of the group's units that lie inside a repeat.
func (g GroupStats) Coverage() float64 {
	if g.Units == 0 {
		return 0
	}
	return float64(g.CoveredUnits) / float64(g.Units)
}

// Comparison holds per-group stats and how much the groups' repeats overlap
type Comparison struct {
	Groups    []GroupStats `json:"groups"`
	Unmatched int          `json:"unmatched"` // documents in neither group
	Shared    int          `json:"shared"`    // repeats touching both groups
	Overlap   float64      `json:"overlap"`   // jaccard of the groups' repeat sets
}

// parseGroups splits the -compare value into exactly two basename globs.
func parseGroups(value string) ([]string, error) {
	patterns := splitList(value)
	if len(patterns) != 2 {
		return nil, fmt.Errorf("-compare requires two comma-separated globs, got %q", value)
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("bad -compare glob %q: %w", p, err)
		}
	}
	return patterns, nil
}

// groupOf returns the index of the first pattern matching the file's base name,
// or -1.
func groupOf(path string, patterns []string) int {
	base := filepath.Base(path)
	for i, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return i
		}
	}
	return -1
}

// CompareGroups attributes every match occurrence to the group of its document
// and measures coverage and overlap between the two groups.
func CompareGroups(docs []Document, matches []supermaxrep.Match, mode supermaxrep.Mode, patterns []string) Comparison {
	cmp := Comparison{Groups: make([]GroupStats, len(patterns))}
	for i, p := range patterns {
		cmp.Groups[i].Pattern = p
	}

	docGroup := make([]int, len(docs))
	covered := make([][]bool, len(docs))
	for i, d := range docs {
		g := groupOf(d.Path, patterns)
		docGroup[i] = g
		if g < 0 {
			cmp.Unmatched++
			continue
		}
		n := supermaxrep.UnitCount(d.Text, mode)
		cmp.Groups[g].Documents++
		cmp.Groups[g].Units += n
		covered[i] = make([]bool, n)
	}

	for _, m := range matches {
		touched := make([]bool, len(patterns))
		for _, loc := range m.Locations {
			g := docGroup[loc.DocIdx]
			if g < 0 {
				continue
			}
			cmp.Groups[g].Occurrences++
			touched[g] = true
			span := covered[loc.DocIdx]
			for u := loc.Start; u < loc.Start+m.Len && u < len(span); u++ {
				span[u] = true
			}
		}
		all := len(patterns) > 0
		for g, hit := range touched {
			if hit {
				cmp.Groups[g].Repeats++
				cmp.Groups[g].texts = append(cmp.Groups[g].texts, m.Text)
			} else {
				all = false
			}
		}
		if all {
			cmp.Shared++
		}
	}

	for i, span := range covered {
		if docGroup[i] < 0 {
			continue
		}
		for _, c := range span {
			if c {
				cmp.Groups[docGroup[i]].CoveredUnits++
			}
		}
	}

	if len(cmp.Groups) == 2 {
		cmp.Overlap = jaccard(setOf(cmp.Groups[0].texts), setOf(cmp.Groups[1].texts))
	}
	return cmp
}

// PrintComparison prints the group comparison table
func PrintComparison(cmp Comparison, mode supermaxrep.Mode) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("GROUP COMPARISON (%s units)\n", mode)
	fmt.Printf("%s\n\n", strings.Repeat("=", 60))

	groups := make([]GroupStats, len(cmp.Groups))
	copy(groups, cmp.Groups)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Coverage() > groups[j].Coverage()
	})

	for _, g := range groups {
		fmt.Printf("%s %s docs, %s units\n",
			theme.Location.Render(fmt.Sprintf("%-16s", g.Pattern)),
			theme.LineNum.Render(fmt.Sprintf("%d", g.Documents)),
			theme.LineNum.Render(fmt.Sprintf("%d", g.Units)))
		fmt.Printf("  repeats %s  occurrences %s  coverage %s\n",
			theme.Summary.Render(fmt.Sprintf("%d", g.Repeats)),
			theme.Summary.Render(fmt.Sprintf("%d", g.Occurrences)),
			theme.Score.Render(fmt.Sprintf("%.1f%%", g.Coverage()*100)))
	}

	fmt.Printf("\n%s repeats appear in both groups (overlap %s)\n",
		theme.Summary.Render(fmt.Sprintf("%d", cmp.Shared)),
		theme.Score.Render(fmt.Sprintf("%.1f%%", cmp.Overlap*100)))
	if cmp.Unmatched > 0 {
		fmt.Printf("%s\n", theme.Dim.Render(fmt.Sprintf("%d documents matched neither group", cmp.Unmatched)))
	}
}
