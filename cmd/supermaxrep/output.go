package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asynkron/supermaxrep"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for console output
type Theme struct {
	Score    lipgloss.Style
	Hash     lipgloss.Style
	Location lipgloss.Style
	LineNum  lipgloss.Style
	Summary  lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultTheme is the default color scheme
var DefaultTheme = Theme{
	Score:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	Hash:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Location: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	Summary:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Current theme (can be changed at runtime)
var theme = DefaultTheme

// PrintScanStart prints the initial scanning message
func PrintScanStart(fileCount, workerCount int) {
	fmt.Printf("Loading %d documents using %d workers...\n", fileCount, workerCount)
}

// PrintLoadComplete prints loading stats
func PrintLoadComplete(res loadResult, totalBytes int64, duration time.Duration) {
	if res.CacheHits > 0 {
		fmt.Printf("Loaded %d documents (%d cached, %d extracted, %s) in %s\n",
			len(res.Docs), res.CacheHits, res.CacheMisses, formatBytes(totalBytes), duration.Round(time.Millisecond))
	} else {
		fmt.Printf("Loaded %d documents (%s) in %s\n",
			len(res.Docs), formatBytes(totalBytes), duration.Round(time.Millisecond))
	}
	if len(res.Failed) > 0 {
		paths := make([]string, 0, len(res.Failed))
		for p := range res.Failed {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "Warning: skipped %s: %v\n", p, res.Failed[p])
		}
	}
}

// PrintOversized prints how many files exceeded -max-bytes
func PrintOversized(count int, maxBytes int64) {
	if count > 0 {
		fmt.Printf("Skipped %d files larger than %s\n", count, formatBytes(maxBytes))
	}
}

// PrintScanComplete prints pipeline counters
func PrintScanComplete(stats supermaxrep.Stats, duration time.Duration) {
	fmt.Printf("Indexed %d units in %s\n", stats.Units, duration.Round(time.Millisecond))
	fmt.Printf("%s\n", theme.Dim.Render(fmt.Sprintf(
		"%d intervals, %d maximal, %d supermaximal, %d reported",
		stats.Intervals, stats.Maximal, stats.Supermaximal, stats.Reported)))
}

// PrintIgnored prints count of loaded and applied ignore entries
func PrintIgnored(loaded, skipped int) {
	if loaded > 0 {
		fmt.Printf("Loaded %d ignored repeats from ignore.json (%d suppressed)\n", loaded, skipped)
	}
}

// PrintMatchSummary prints the summary of found repeats
func PrintMatchSummary(matchCount, minOcc, top int) {
	fmt.Printf("Found %s supermaximal repeats with %d+ occurrences (showing top %d by length)\n\n",
		theme.Summary.Render(fmt.Sprintf("%d", matchCount)), minOcc, top)
}

// preview shortens s to max runes and makes line breaks visible.
func preview(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// PrintMatches prints the top matches with their locations
func PrintMatches(matches []supermaxrep.Match, names []string, top int) {
	for _, m := range TopN(matches, top) {
		fmt.Printf("\n%s %s %s\n",
			theme.Score.Render(fmt.Sprintf("Length %d", m.Len)),
			theme.Dim.Render(fmt.Sprintf("found %d times", m.Occurrences)),
			theme.Hash.Render(fmt.Sprintf("%q", preview(m.Text, 72))))
		for _, loc := range m.Locations {
			fmt.Printf("  %s%s%s\n",
				theme.Location.Render(names[loc.DocIdx]),
				theme.Dim.Render(":"),
				theme.LineNum.Render(fmt.Sprintf("%d", loc.Start)))
		}
	}
}

// Hotspot is the repeated unit count of one document
type Hotspot struct {
	Document string
	Units    int
}

// Hotspots sums the repeat length of every occurrence per document, largest
// first.
func Hotspots(matches []supermaxrep.Match, names []string) []Hotspot {
	perDoc := make(map[int]int)
	for _, m := range matches {
		for _, loc := range m.Locations {
			perDoc[loc.DocIdx] += m.Len
		}
	}

	hotspots := make([]Hotspot, 0, len(perDoc))
	for doc, units := range perDoc {
		hotspots = append(hotspots, Hotspot{names[doc], units})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Units != hotspots[j].Units {
			return hotspots[i].Units > hotspots[j].Units
		}
		return hotspots[i].Document < hotspots[j].Document
	})
	return hotspots
}

// PrintHotspots prints the documents with the most repeated units
func PrintHotspots(matches []supermaxrep.Match, names []string) {
	hotspots := Hotspots(matches, names)
	if len(hotspots) == 0 {
		return
	}
	fmt.Printf("\n%s\n", theme.Summary.Render("Repetition hotspots (units):"))
	for _, h := range hotspots[:min(5, len(hotspots))] {
		fmt.Printf("  %s %s\n",
			theme.LineNum.Render(fmt.Sprintf("%6d", h.Units)),
			theme.Location.Render(h.Document))
	}
}

// PrintThroughput prints how fast the scan processed the corpus
func PrintThroughput(units, docs int, totalBytes int64, elapsed time.Duration) {
	secs := elapsed.Seconds()
	if secs <= 0 || docs == 0 {
		return
	}
	fmt.Printf("\n%s %s units/s, %s docs/s, %s/s, %s ms/doc\n",
		theme.Dim.Render("Throughput:"),
		theme.Summary.Render(fmt.Sprintf("%.0f", float64(units)/secs)),
		theme.Summary.Render(fmt.Sprintf("%.1f", float64(docs)/secs)),
		theme.Summary.Render(formatBytes(int64(float64(totalBytes)/secs))),
		theme.Summary.Render(fmt.Sprintf("%.2f", elapsed.Seconds()*1000/float64(docs))))
}

// PrintTotalSummary prints the final summary line
func PrintTotalSummary(matchCount, docCount, units int, elapsed time.Duration) {
	fmt.Printf("\nTotal: %s supermaximal repeats in %s documents (%s units) in %s\n",
		theme.Summary.Render(fmt.Sprintf("%d", matchCount)),
		theme.Summary.Render(fmt.Sprintf("%d", docCount)),
		theme.Summary.Render(fmt.Sprintf("%d", units)),
		theme.Summary.Render(elapsed.Round(time.Millisecond).String()))
}

// BuildJSONOutput converts matches into the results file structure
func BuildJSONOutput(names []string, matches []supermaxrep.Match, stats supermaxrep.Stats, opts supermaxrep.Options) JSONOutput {
	out := JSONOutput{
		Mode:         string(opts.Mode),
		MinLen:       opts.MinLen,
		MinOcc:       opts.MinOcc,
		Documents:    names,
		Stats:        stats,
		TotalRepeats: len(matches),
		Repeats:      make([]JSONRepeat, 0, len(matches)),
	}
	for _, m := range matches {
		locs := make([]JSONLocation, len(m.Locations))
		for i, loc := range m.Locations {
			locs[i] = JSONLocation{Document: names[loc.DocIdx], DocIdx: loc.DocIdx, Start: loc.Start}
		}
		out.Repeats = append(out.Repeats, JSONRepeat{
			Text:        m.Text,
			Len:         m.Len,
			Occurrences: m.Occurrences,
			Document:    names[m.DocIdx],
			Start:       m.Start,
			Locations:   locs,
		})
	}
	return out
}

// WriteJSONResults writes the results to a JSON file
func WriteJSONResults(out JSONOutput, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("writing JSON file: %w", err)
	}

	fmt.Printf("Results written to: %s\n", theme.Location.Render(outputPath))
	return nil
}

// BuildReport renders the top matches as markdown, one section per repeat
func BuildReport(matches []supermaxrep.Match, names []string, top int) string {
	var sb strings.Builder
	sb.WriteString("# Supermaximal repeats\n\n")
	for i, m := range TopN(matches, top) {
		sb.WriteString(fmt.Sprintf("## Repeat %d\n\n", i+1))
		sb.WriteString(fmt.Sprintf("**Length:** %d  **Occurrences:** %d\n\n", m.Len, m.Occurrences))
		fence := fenceFor(m.Text)
		sb.WriteString(fence + "text\n")
		sb.WriteString(m.Text)
		sb.WriteString("\n" + fence + "\n\n")
		for _, loc := range m.Locations {
			sb.WriteString(fmt.Sprintf("- `%s:%d`\n", names[loc.DocIdx], loc.Start))
		}
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}

// fenceFor returns a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// RenderReport renders markdown for the terminal, falling back to the raw
// markdown when rendering fails
func RenderReport(markdown string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(markdown); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(markdown)
}
