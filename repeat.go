// Package supermaxrep finds supermaximal repeats across a set of documents.
//
// A repeat is maximal when it cannot be extended to the left or right without
// losing an occurrence, and supermaximal when it is not contained in any other
// maximal repeat. Documents are compared either character by character or
// token by token (whitespace separated words).
//
// Every call builds a generalized suffix array over the documents, walks its
// LCP intervals and discards the index before returning.
package supermaxrep

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidArgument is wrapped by every argument validation error.
var ErrInvalidArgument = errors.New("invalid argument")

// Mode selects the atomic unit documents are compared in.
type Mode string

const (
	ModeChar Mode = "char"
	ModeWord Mode = "word"
)

// ParseMode converts a mode name. The empty string selects ModeChar.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeChar:
		return ModeChar, nil
	case ModeWord:
		return ModeWord, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
}

// Repeat is one supermaximal repeat, reported at a representative occurrence.
// Start and Len are measured in mode units: runes for ModeChar, tokens for ModeWord.
type Repeat struct {
	DocIdx      int    `json:"doc_idx"`
	Start       int    `json:"start"`
	Len         int    `json:"len"`
	Occurrences int    `json:"occurrences"`
	Text        string `json:"text"`
}

// Location is one occurrence of a repeat.
type Location struct {
	DocIdx int `json:"doc_idx"`
	Start  int `json:"start"`
}

// Match is a repeat together with every place it occurs, ordered by document
// and offset.
type Match struct {
	Repeat
	Locations []Location `json:"locations"`
}

// Options configures Scan.
type Options struct {
	MinLen int
	MinOcc int
	Mode   Mode
	// Workers bounds the goroutines used by the maximality filter.
	// Zero means runtime.NumCPU().
	Workers int
}

// Stats counts what each pipeline stage produced.
type Stats struct {
	Documents    int `json:"documents"`
	Units        int `json:"units"`
	Intervals    int `json:"intervals"`
	Maximal      int `json:"maximal"`
	Supermaximal int `json:"supermaximal"`
	Reported     int `json:"reported"`
}

// Find returns the supermaximal repeats of a single text in character mode.
func Find(text string, minLen, minOcc int) ([]Repeat, error) {
	return FindDocs([]string{text}, minLen, minOcc, ModeChar)
}

// FindDocs returns the supermaximal repeats across docs. A repeat never spans
// two documents, but its occurrences may be spread over several of them.
func FindDocs(docs []string, minLen, minOcc int, mode Mode) ([]Repeat, error) {
	matches, _, err := Scan(docs, Options{MinLen: minLen, MinOcc: minOcc, Mode: mode})
	if err != nil {
		return nil, err
	}
	repeats := make([]Repeat, len(matches))
	for i, m := range matches {
		repeats[i] = m.Repeat
	}
	return repeats, nil
}

// Scan runs the full pipeline and returns every supermaximal repeat with all
// of its occurrences, sorted by the representative (document, start).
func Scan(docs []string, opts Options) ([]Match, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}
	mode, _ := ParseMode(string(opts.Mode))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	st := buildStream(docs, unitizerFor(mode))
	stats := Stats{Documents: len(docs), Units: st.unitCount()}
	if stats.Units == 0 {
		return []Match{}, stats, nil
	}

	idx := st.index()
	intervals := extractIntervals(idx.LCP, opts.MinLen)
	stats.Intervals = len(intervals)

	maximal := filterLeftMaximal(intervals, idx.SA, st, workers)
	stats.Maximal = len(maximal)

	selected := selectSupermaximal(maximal, idx.SA, len(st.units))
	stats.Supermaximal = len(selected)

	matches := materialize(selected, idx.SA, st, opts.MinOcc)
	stats.Reported = len(matches)
	return matches, stats, nil
}

// Validate reports whether the options describe a runnable scan.
func (o Options) Validate() error {
	if o.MinLen < 1 {
		return fmt.Errorf("%w: min_len must be >= 1, got %d", ErrInvalidArgument, o.MinLen)
	}
	if o.MinOcc < 2 {
		return fmt.Errorf("%w: min_occ must be >= 2, got %d", ErrInvalidArgument, o.MinOcc)
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}
