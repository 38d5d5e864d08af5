package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/asynkron/supermaxrep"
)

// FilterIgnored drops matches whose text the user listed in ignore.json
func FilterIgnored(matches []supermaxrep.Match, ignored map[string]bool) ([]supermaxrep.Match, int) {
	if len(ignored) == 0 {
		return matches, 0
	}
	kept := make([]supermaxrep.Match, 0, len(matches))
	skipped := 0
	for _, m := range matches {
		if ignored[m.Text] {
			skipped++
			continue
		}
		kept = append(kept, m)
	}
	return kept, skipped
}

// RankMatches orders matches for display: longest first, then most frequent,
// then by position so the order is deterministic.
func RankMatches(matches []supermaxrep.Match) []supermaxrep.Match {
	ranked := make([]supermaxrep.Match, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Len != b.Len {
			return a.Len > b.Len
		}
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.DocIdx != b.DocIdx {
			return a.DocIdx < b.DocIdx
		}
		return a.Start < b.Start
	})
	return ranked
}

// TopN returns at most n matches from the slice
func TopN(matches []supermaxrep.Match, n int) []supermaxrep.Match {
	if n < 0 || len(matches) < n {
		n = len(matches)
	}
	return matches[:n]
}

// LoadIgnored reads ignore.json and returns the repeat texts to suppress.
// A missing file is created empty so users can find it.
func LoadIgnored(dir string) map[string]bool {
	ignorePath := filepath.Join(dir, stateDir, "ignore.json")
	data, err := os.ReadFile(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			emptyIgnore := IgnoreFile{
				Description: "Repeat texts listed here are left out of reports",
				Ignored:     []string{},
			}
			if jsonData, err := json.MarshalIndent(emptyIgnore, "", "  "); err == nil {
				os.MkdirAll(filepath.Join(dir, stateDir), 0o755)
				os.WriteFile(ignorePath, jsonData, 0o644)
			}
		}
		return nil
	}

	var ignoreFile IgnoreFile
	if err := json.Unmarshal(data, &ignoreFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse %s: %v\n", ignorePath, err)
		return nil
	}

	ignored := make(map[string]bool, len(ignoreFile.Ignored))
	for _, text := range ignoreFile.Ignored {
		if text != "" {
			ignored[text] = true
		}
	}
	return ignored
}
