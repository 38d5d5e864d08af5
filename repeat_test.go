package supermaxrep

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustFind(t *testing.T, s string, minLen, minOcc int) []Repeat {
	t.Helper()
	repeats, err := Find(s, minLen, minOcc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repeats
}

func mustFindDocs(t *testing.T, docs []string, minLen, minOcc int, mode Mode) []Repeat {
	t.Helper()
	repeats, err := FindDocs(docs, minLen, minOcc, mode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repeats
}

func TestFindSingleRepeat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		minLen int
		minOcc int
		start  int
		length int
		text   string
	}{
		{"aa", "aa", 1, 2, 1, 1, "a"},
		{"aaa", "aaa", 1, 2, 1, 2, "aa"},
		{"banana", "banana", 1, 2, 3, 3, "ana"},
		{"aaaaa", "aaaaa", 1, 2, 1, 4, "aaaa"},
		{"abab", "abab", 1, 2, 2, 2, "ab"},
		{"abracadabra", "abracadabra", 1, 2, 7, 4, "abra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repeats := mustFind(t, tt.input, tt.minLen, tt.minOcc)
			if len(repeats) != 1 {
				t.Fatalf("expected 1 repeat, got %d: %+v", len(repeats), repeats)
			}
			r := repeats[0]
			if r.DocIdx != 0 {
				t.Errorf("expected doc 0, got %d", r.DocIdx)
			}
			if r.Start != tt.start {
				t.Errorf("expected start %d, got %d", tt.start, r.Start)
			}
			if r.Len != tt.length {
				t.Errorf("expected len %d, got %d", tt.length, r.Len)
			}
			if r.Text != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, r.Text)
			}
			if got := tt.input[r.Start : r.Start+r.Len]; got != r.Text {
				t.Errorf("text %q does not match source slice %q", r.Text, got)
			}
		})
	}
}

func TestFindNoRepeats(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		minLen int
		minOcc int
	}{
		{"distinct units", "abcd", 1, 2},
		{"empty", "", 1, 2},
		{"single unit", "a", 1, 2},
		{"aaa min_occ 3", "aaa", 1, 3},
		{"banana min_len 4", "banana", 4, 2},
		{"aaaaa min_len 5", "aaaaa", 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repeats := mustFind(t, tt.input, tt.minLen, tt.minOcc)
			if len(repeats) != 0 {
				t.Errorf("expected no repeats, got %+v", repeats)
			}
		})
	}
}

func TestFindMississippi(t *testing.T) {
	s := "mississippi"
	repeats := mustFind(t, s, 1, 2)
	if len(repeats) != 2 {
		t.Fatalf("expected 2 repeats, got %+v", repeats)
	}
	if repeats[0].Len != 4 || repeats[0].Text != "issi" {
		t.Errorf("expected first repeat \"issi\", got %+v", repeats[0])
	}
	if repeats[1].Text != "p" || repeats[1].Occurrences != 2 {
		t.Errorf("expected second repeat \"p\" x2, got %+v", repeats[1])
	}
}

func TestFindWoodchuck(t *testing.T) {
	s := "How many wood would a woodchuck chuck."
	repeats := mustFind(t, s, 3, 2)
	if len(repeats) != 2 {
		t.Fatalf("expected 2 repeats, got %+v", repeats)
	}
	texts := map[string]bool{}
	for _, r := range repeats {
		if r.Len != 5 {
			t.Errorf("expected len 5, got %+v", r)
		}
		texts[r.Text] = true
	}
	if !texts[" wood"] || !texts["chuck"] {
		t.Errorf("expected \" wood\" and \"chuck\", got %+v", repeats)
	}
}

func TestFindDocsAcrossDocuments(t *testing.T) {
	passage := "At length the breathless hunter came so nigh his seemingly unsuspecting prey, that his entire dazzling hump was distinctly visible, sliding along the sea as if an isolated thing, and continually set in a revolving ring of finest, fleecy, greenish foam. He saw the vast, involved wrinkles of the slig"
	docs := []string{
		"Prefix text." + passage + "Suffix text one.",
		"Another prefix!" + passage + "Another suffix.",
	}
	repeats := mustFindDocs(t, docs, 20, 2, ModeChar)

	matching := 0
	for _, r := range repeats {
		if r.Len < 20 {
			t.Errorf("repeat shorter than min_len: %+v", r)
		}
		if sliceRunes(docs[r.DocIdx], r.Start, r.Len) == passage {
			matching++
			if r.Len != utf8.RuneCountInString(passage) {
				t.Errorf("expected len %d, got %d", utf8.RuneCountInString(passage), r.Len)
			}
		}
	}
	if matching != 1 {
		t.Errorf("expected exactly one record for the shared passage, got %d in %+v", matching, repeats)
	}
}

func TestFindDocsThreeDocumentsMinOcc(t *testing.T) {
	passage := "Night was coming on, so I left the river, and went into a thicket, where I covered myself all over with leaves, and presently heaven sent me off into a very deep sleep. Sick and sorry as I was I slept among the leaves all night, and through the next day till afternoon, when I woke as the sun was we"
	docs := []string{
		passage + "A End of doc1.",
		"Start doc2. " + passage,
		passage + "B End of doc3.",
	}
	repeats := mustFindDocs(t, docs, 20, 3, ModeChar)

	matching := 0
	for _, r := range repeats {
		if r.Text == passage {
			matching++
			if r.Occurrences != 3 {
				t.Errorf("expected 3 occurrences, got %d", r.Occurrences)
			}
		}
	}
	if matching != 1 {
		t.Errorf("expected exactly one record for the shared passage, got %d in %+v", matching, repeats)
	}
}

func TestFindDocsMultiByteText(t *testing.T) {
	first := "Oh, you’re a dry journalist, Miss Shelton remarked. You wouldn’t understand, are you? No, I won’t understand, Albert responded. Ah, Miss Shelton said. I don’t think so. I’m quite right. We’ve worked up a bit of hostility, the past couple of months, so you wouldn’t be able to understa"
	second := "Our attention, therefore, may, with some propriety, be drawn to the inconveniences which are caused by the coming into contact of many members of a particular family, in consequence of intermarriage, according to one particular, and the infusion into it of a fatal mixture; which, in a time of incre"
	docs := []string{
		first + "Shared text." + second,
		first + "Different shared.",
		"Prefix " + second + "Suffix.",
	}
	repeats := mustFindDocs(t, docs, 20, 2, ModeChar)

	found := map[string]int{}
	for _, r := range repeats {
		if sliceRunes(docs[r.DocIdx], r.Start, r.Len) != r.Text {
			t.Errorf("text does not match its offsets: %+v", r)
		}
		found[r.Text]++
	}
	if found[first] != 1 {
		t.Errorf("expected the first passage once, got %d", found[first])
	}
	if found[second] != 1 {
		t.Errorf("expected the second passage once, got %d", found[second])
	}
}

func TestFindDocsWordMode(t *testing.T) {
	docs := []string{"hello world hello", "world hello world"}
	repeats := mustFindDocs(t, docs, 1, 2, ModeWord)
	if len(repeats) == 0 {
		t.Fatalf("expected repeats")
	}
	texts := map[string]bool{}
	for _, r := range repeats {
		texts[r.Text] = true
	}
	if !texts["hello world"] || !texts["world hello"] {
		t.Errorf("expected \"hello world\" and \"world hello\", got %+v", repeats)
	}
}

func TestFindDocsWordModeRejoinsTokens(t *testing.T) {
	words := strings.Fields("At length the breathless hunter came so nigh his seemingly unsuspecting prey that his entire dazzling hump was distinctly visible")
	passage := strings.Join(words, " ")
	docs := []string{
		"Prefix text. " + passage + " Suffix text one.",
		"Another   prefix!\n" + strings.Join(words, "\t ") + "\nAnother suffix.",
	}
	repeats := mustFindDocs(t, docs, len(words), 2, ModeWord)

	matching := 0
	for _, r := range repeats {
		if r.Text == passage {
			matching++
			if r.Len != len(words) {
				t.Errorf("expected %d tokens, got %d", len(words), r.Len)
			}
			if r.Start != 2 {
				t.Errorf("expected token offset 2, got %d", r.Start)
			}
		}
	}
	if matching != 1 {
		t.Errorf("expected one record for the passage, got %d in %+v", matching, repeats)
	}
}

func TestFindDocsEmptyInputs(t *testing.T) {
	for _, docs := range [][]string{nil, {}, {""}, {"", "", ""}, {"   \n\t"}} {
		for _, mode := range []Mode{ModeChar, ModeWord} {
			repeats, err := FindDocs(docs, 1, 2, mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode == ModeChar && len(docs) == 1 && docs[0] != "" {
				continue
			}
			if len(repeats) != 0 {
				t.Errorf("docs=%q mode=%s: expected no repeats, got %+v", docs, mode, repeats)
			}
		}
	}
}

func TestFindDocsDocumentStartsDoNotForceNonMaximality(t *testing.T) {
	// "xy" opens both documents; with no shared predecessor it is maximal.
	repeats := mustFindDocs(t, []string{"xyab", "xycd"}, 1, 2, ModeChar)
	if len(repeats) != 1 || repeats[0].Text != "xy" {
		t.Fatalf("expected single repeat \"xy\", got %+v", repeats)
	}
	if repeats[0].DocIdx != 0 || repeats[0].Start != 0 {
		t.Errorf("expected representative in doc 0 at 0, got %+v", repeats[0])
	}
}

func TestFindDocsRepeatsNeverSpanDocuments(t *testing.T) {
	// "ab" + "ab" would be "abab" if the documents were simply joined.
	repeats := mustFindDocs(t, []string{"ab", "ab", "abab"}, 1, 2, ModeChar)
	for _, r := range repeats {
		if r.Len > 2 {
			t.Errorf("repeat spans a document boundary: %+v", r)
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		minLen int
		minOcc int
		mode   Mode
	}{
		{"min_len zero", 0, 2, ModeChar},
		{"min_len negative", -3, 2, ModeChar},
		{"min_occ one", 1, 1, ModeChar},
		{"unknown mode", 1, 2, Mode("sentence")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindDocs([]string{"abcabc"}, tt.minLen, tt.minOcc, tt.mode)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{MinLen: 1, MinOcc: 2, Mode: ModeWord}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, o := range []Options{
		{MinLen: 0, MinOcc: 2, Mode: ModeChar},
		{MinLen: 1, MinOcc: 1, Mode: ModeChar},
		{MinLen: 1, MinOcc: 2, Mode: "line"},
	} {
		if err := o.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%+v: expected ErrInvalidArgument, got %v", o, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeChar, "char": ModeChar, "word": ModeWord} {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseMode("CHAR"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFindIdempotent(t *testing.T) {
	docs := []string{"the cat sat on the mat", "the cat ate the rat", "on the mat the cat sat"}
	for _, mode := range []Mode{ModeChar, ModeWord} {
		first := mustFindDocs(t, docs, 1, 2, mode)
		second := mustFindDocs(t, docs, 1, 2, mode)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("mode %s: results differ between runs:\n%+v\n%+v", mode, first, second)
		}
	}
}

func TestScanLocationsAndStats(t *testing.T) {
	docs := []string{"abcXabc", "Yabc"}
	matches, stats, err := Scan(docs, Options{MinLen: 2, MinOcc: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	m := matches[0]
	if m.Text != "abc" || m.Occurrences != 3 {
		t.Errorf("expected \"abc\" x3, got %+v", m.Repeat)
	}
	want := []Location{{0, 0}, {0, 4}, {1, 1}}
	if !reflect.DeepEqual(m.Locations, want) {
		t.Errorf("expected locations %v, got %v", want, m.Locations)
	}
	if stats.Documents != 2 || stats.Units != 11 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Reported != 1 || stats.Supermaximal < 1 || stats.Maximal < stats.Supermaximal {
		t.Errorf("inconsistent stage counters: %+v", stats)
	}
}

func TestScanParallelFilterMatchesSerial(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 9000; i++ {
		sb.WriteString([]string{"alpha ", "beta ", "gamma ", "delta "}[(i*i+i/7)%4])
	}
	docs := []string{sb.String(), sb.String()[7:]}

	serial, _, err := Scan(docs, Options{MinLen: 1, MinOcc: 2, Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, _, err := Scan(docs, Options{MinLen: 1, MinOcc: 2, Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("parallel filtering changed the result: %d vs %d matches", len(serial), len(parallel))
	}
}

func sliceRunes(s string, start, n int) string {
	r := []rune(s)
	if start+n > len(r) {
		return ""
	}
	return string(r[start : start+n])
}
