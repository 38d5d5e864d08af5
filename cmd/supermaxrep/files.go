package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asynkron/supermaxrep/internal/parser"
	strconv "github.com/dsnet/golib/unitconv"
)

// stateDir holds cache, ignore and result files under the scanned path.
const stateDir = ".supermaxrep"

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseMaxBytes accepts plain integers or prefixed sizes such as "512Ki" or
// "10M". Empty means unlimited.
func parseMaxBytes(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParsePrefix(s, strconv.AutoParse)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid -max-bytes %q", s)
	}
	return int64(n), nil
}

func formatBytes(n int64) string {
	return strconv.FormatPrefix(float64(n), strconv.Base1024, 2) + "B"
}

// collectFiles walks root and returns the supported documents whose document
// extension is in exts, skipping excluded names and files above maxBytes.
func collectFiles(root string, exts, excludes []string, maxBytes int64) (files []string, oversized int, err error) {
	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		wanted[strings.ToLower(e)] = true
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == stateDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.IsSupported(path) || !wanted[parser.DocumentExt(path)] {
			return nil
		}
		for _, pattern := range excludes {
			if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
				return nil
			}
		}
		if maxBytes > 0 && info.Size() > maxBytes {
			oversized++
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, oversized, err
}
