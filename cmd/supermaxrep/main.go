package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/asynkron/supermaxrep"
	"github.com/asynkron/supermaxrep/internal/store"
)

func main() {
	path := flag.String("path", ".", "Path to scan")
	ext := flag.String("ext", ".txt,.md", "Document extensions to scan (comma-separated; compressed variants such as .txt.gz are included)")
	exclude := flag.String("exclude", "", "Exclude files matching patterns (comma-separated, e.g., 'README*,*.draft.md')")
	minLen := flag.Int("min-len", 20, "Minimum repeat length in units")
	minOcc := flag.Int("min-occ", 2, "Minimum occurrences to report")
	mode := flag.String("mode", "char", "Unit of comparison: char or word")
	topN := flag.Int("top", 10, "Show top N repeats by length")
	workers := flag.Int("workers", runtime.NumCPU(), "Worker goroutines for loading and filtering")
	maxBytes := flag.String("max-bytes", "", "Skip files larger than this size (e.g., 4096, 512Ki, 10M)")
	noCache := flag.Bool("no-cache", false, "Disable the extracted text cache")
	jsonOut := flag.Bool("json", false, "Write results to .supermaxrep/results.json")
	report := flag.Bool("report", false, "Render the top repeats as a markdown report")
	dbPath := flag.String("db", "", "Store the run in this sqlite database")
	compare := flag.String("compare", "", "Compare two document groups by basename glob (format: 'human_*,ai_*')")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of scanning (configured by environment)")
	flag.Parse()

	if *serve {
		os.Exit(runServe(*dbPath))
	}

	os.Exit(run(scanConfig{
		Root:     *path,
		Exts:     splitList(*ext),
		Excludes: splitList(*exclude),
		MinLen:   *minLen,
		MinOcc:   *minOcc,
		Mode:     *mode,
		Top:      *topN,
		Workers:  *workers,
		MaxBytes: *maxBytes,
		NoCache:  *noCache,
		JSON:     *jsonOut,
		Report:   *report,
		DBPath:   *dbPath,
		Compare:  *compare,
	}))
}

// scanConfig carries the parsed command line of a scan
type scanConfig struct {
	Root     string
	Exts     []string
	Excludes []string
	MinLen   int
	MinOcc   int
	Mode     string
	Top      int
	Workers  int
	MaxBytes string
	NoCache  bool
	JSON     bool
	Report   bool
	DBPath   string
	Compare  string
}

func fail(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return 1
}

// run executes one scan and returns the process exit code
func run(cfg scanConfig) int {
	startTime := time.Now()

	mode, err := supermaxrep.ParseMode(cfg.Mode)
	if err != nil {
		return fail("%v", err)
	}
	opts := supermaxrep.Options{MinLen: cfg.MinLen, MinOcc: cfg.MinOcc, Mode: mode, Workers: cfg.Workers}
	if err := opts.Validate(); err != nil {
		return fail("%v", err)
	}

	limit, err := parseMaxBytes(cfg.MaxBytes)
	if err != nil {
		return fail("%v", err)
	}
	var groups []string
	if cfg.Compare != "" {
		if groups, err = parseGroups(cfg.Compare); err != nil {
			return fail("%v", err)
		}
	}

	files, oversized, err := collectFiles(cfg.Root, cfg.Exts, cfg.Excludes, limit)
	if err != nil {
		return fail("walking directory: %v", err)
	}
	PrintOversized(oversized, limit)
	if len(files) == 0 {
		fmt.Printf("No %v documents found in %s\n", cfg.Exts, cfg.Root)
		return 0
	}

	// Phase 1: extract text in parallel (with caching)
	PrintScanStart(len(files), max(cfg.Workers, 1))
	loadStart := time.Now()
	var cache *TextCache
	if !cfg.NoCache {
		cache = loadCache(cfg.Root)
	}
	res := loadDocuments(files, cache, cfg.Workers)
	if !cfg.NoCache && res.CacheMisses > 0 {
		saveCache(cfg.Root, res.Docs)
	}
	var totalBytes int64
	for _, d := range res.Docs {
		totalBytes += d.Bytes
	}
	PrintLoadComplete(res, totalBytes, time.Since(loadStart))

	names := make([]string, len(res.Docs))
	texts := make([]string, len(res.Docs))
	for i, d := range res.Docs {
		names[i] = displayName(cfg.Root, d.Path)
		texts[i] = d.Text
	}

	// Phase 2: index and select
	scanStart := time.Now()
	matches, stats, err := supermaxrep.Scan(texts, opts)
	if err != nil {
		return fail("%v", err)
	}
	scanTime := time.Since(scanStart)
	PrintScanComplete(stats, scanTime)

	ignored := LoadIgnored(cfg.Root)
	matches, skipped := FilterIgnored(matches, ignored)
	PrintIgnored(len(ignored), skipped)

	if cfg.DBPath != "" {
		if err := saveRun(cfg.DBPath, names, opts, stats, matches); err != nil {
			return fail("%v", err)
		}
	}

	if cfg.JSON {
		out := BuildJSONOutput(names, matches, stats, opts)
		if err := WriteJSONResults(out, filepath.Join(cfg.Root, stateDir, "results.json")); err != nil {
			return fail("%v", err)
		}
	}

	ranked := RankMatches(matches)
	top := min(cfg.Top, len(ranked))
	if top < 0 {
		top = len(ranked)
	}
	PrintMatchSummary(len(ranked), cfg.MinOcc, top)
	if cfg.Report {
		RenderReport(BuildReport(ranked, names, top))
	} else {
		PrintMatches(ranked, names, top)
	}
	PrintHotspots(matches, names)

	if groups != nil {
		PrintComparison(CompareGroups(res.Docs, matches, mode, groups), mode)
	}

	PrintThroughput(stats.Units, len(res.Docs), totalBytes, scanTime)
	PrintTotalSummary(len(matches), len(res.Docs), stats.Units, time.Since(startTime))
	return 0
}

// displayName shows paths relative to the scanned root when possible
func displayName(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func saveRun(dbPath string, names []string, opts supermaxrep.Options, stats supermaxrep.Stats, matches []supermaxrep.Match) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.SaveRun(context.Background(), store.RunInput{
		Names:   names,
		Options: opts,
		Stats:   stats,
		Matches: matches,
	})
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	fmt.Printf("Run %s stored in %s\n", theme.Hash.Render(run.ID.String()), theme.Location.Render(dbPath))
	return nil
}
