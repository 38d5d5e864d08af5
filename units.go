package supermaxrep

import (
	"sort"
	"strings"

	"github.com/asynkron/supermaxrep/internal/suffix"
)

// unitizer turns documents into unit sequences and renders spans of them back
// into text. Real units are always >= 0; negative values are reserved for
// document boundaries.
type unitizer interface {
	split(docs []string) [][]int32
	text(doc, start, n int) string
}

func unitizerFor(mode Mode) unitizer {
	if mode == ModeWord {
		return &wordUnits{}
	}
	return &charUnits{}
}

// charUnits uses Unicode code points as units.
type charUnits struct {
	runes [][]rune
}

func (c *charUnits) split(docs []string) [][]int32 {
	c.runes = make([][]rune, len(docs))
	out := make([][]int32, len(docs))
	for i, d := range docs {
		r := []rune(d)
		c.runes[i] = r
		out[i] = r
	}
	return out
}

func (c *charUnits) text(doc, start, n int) string {
	return string(c.runes[doc][start : start+n])
}

// wordUnits uses whitespace separated tokens as units. Token ids follow the
// sorted order of the distinct tokens so suffix order is lexicographic over
// tokens.
type wordUnits struct {
	tokens [][]string
}

func (w *wordUnits) split(docs []string) [][]int32 {
	w.tokens = make([][]string, len(docs))
	seen := make(map[string]int32)
	for i, d := range docs {
		w.tokens[i] = strings.Fields(d)
		for _, tok := range w.tokens[i] {
			seen[tok] = 0
		}
	}

	vocab := make([]string, 0, len(seen))
	for tok := range seen {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)
	for id, tok := range vocab {
		seen[tok] = int32(id)
	}

	out := make([][]int32, len(docs))
	for i, toks := range w.tokens {
		ids := make([]int32, len(toks))
		for j, tok := range toks {
			ids[j] = seen[tok]
		}
		out[i] = ids
	}
	return out
}

func (w *wordUnits) text(doc, start, n int) string {
	return strings.Join(w.tokens[doc][start:start+n], " ")
}

// stream is the concatenation of all documents, each followed by a sentinel
// unique to that document.
type stream struct {
	units  []int32
	starts []int // stream offset of each document's first unit
	u      unitizer
}

func sentinel(doc int) int32 {
	return -1 - int32(doc)
}

func buildStream(docs []string, u unitizer) *stream {
	seqs := u.split(docs)
	total := len(seqs)
	for _, s := range seqs {
		total += len(s)
	}

	st := &stream{
		units:  make([]int32, 0, total),
		starts: make([]int, len(seqs)),
		u:      u,
	}
	for i, s := range seqs {
		st.starts[i] = len(st.units)
		st.units = append(st.units, s...)
		st.units = append(st.units, sentinel(i))
	}
	return st
}

// unitCount returns the number of real units, sentinels excluded.
func (st *stream) unitCount() int {
	return len(st.units) - len(st.starts)
}

func (st *stream) index() *suffix.Index {
	return suffix.New(st.units)
}

// locate resolves a stream position to its document and offset within it.
func (st *stream) locate(pos int) (doc, local int) {
	doc = sort.Search(len(st.starts), func(i int) bool { return st.starts[i] > pos }) - 1
	return doc, pos - st.starts[doc]
}

// predecessors returns, for every stream position, the unit before it or a
// marker unique to the document when the position is the document's first
// unit. Markers never equal a unit, a sentinel or another document's marker.
func (st *stream) predecessors() []int32 {
	prev := make([]int32, len(st.units))
	for doc, start := range st.starts {
		prev[start] = -1 - int32(len(st.starts)) - int32(doc)
		end := len(st.units)
		if doc+1 < len(st.starts) {
			end = st.starts[doc+1]
		}
		for p := start + 1; p < end; p++ {
			prev[p] = st.units[p-1]
		}
	}
	return prev
}
