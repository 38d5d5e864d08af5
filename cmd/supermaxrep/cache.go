package main

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/asynkron/supermaxrep/internal/parser"
)

// CachedText stores extracted text with the mod time and size it was read at
type CachedText struct {
	ModTime int64
	Size    int64
	Text    string
}

// TextCache stores extracted text for every file of the last run
type TextCache struct {
	Version int // cache format version for invalidation
	Files   map[string]CachedText
}

const cacheVersion = 1

func cachePath(dir string) string {
	return filepath.Join(dir, stateDir, "text-cache.gob")
}

func loadCache(dir string) *TextCache {
	file, err := os.Open(cachePath(dir))
	if err != nil {
		return nil
	}
	defer file.Close()

	var cache TextCache
	if err := gob.NewDecoder(file).Decode(&cache); err != nil {
		return nil
	}
	if cache.Version != cacheVersion {
		return nil
	}
	return &cache
}

// saveCache writes the extracted text of docs to disk. Failures are ignored;
// the cache is only an accelerator.
func saveCache(dir string, docs []Document) {
	cache := TextCache{
		Version: cacheVersion,
		Files:   make(map[string]CachedText, len(docs)),
	}
	for _, d := range docs {
		info, err := os.Stat(d.Path)
		if err != nil {
			continue
		}
		cache.Files[d.Path] = CachedText{
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
			Text:    d.Text,
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, stateDir), 0o755); err != nil {
		return
	}
	file, err := os.Create(cachePath(dir))
	if err != nil {
		return
	}
	defer file.Close()
	gob.NewEncoder(file).Encode(cache)
}

// loadResult summarises a loadDocuments call.
type loadResult struct {
	Docs        []Document
	CacheHits   int
	CacheMisses int
	Failed      map[string]error
}

// loadDocuments extracts the text of files in parallel, reusing cached text
// whose mod time and size still match. Documents keep the order of files;
// files that fail to load are reported in Failed and left out.
func loadDocuments(files []string, cache *TextCache, workers int) loadResult {
	if workers < 1 {
		workers = 1
	}
	slots := make([]*Document, len(files))
	errs := make([]error, len(files))
	var hits, misses atomic.Int64

	work := make(chan int, len(files))
	for i := range files {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				path := files[i]
				info, err := os.Stat(path)
				if err != nil {
					errs[i] = err
					continue
				}

				if cache != nil {
					if cached, ok := cache.Files[path]; ok &&
						cached.ModTime == info.ModTime().UnixNano() && cached.Size == info.Size() {
						slots[i] = &Document{Path: path, Text: cached.Text, Bytes: info.Size()}
						hits.Add(1)
						continue
					}
				}

				text, err := parser.LoadFile(path)
				if err != nil {
					errs[i] = err
					continue
				}
				slots[i] = &Document{Path: path, Text: text, Bytes: info.Size()}
				misses.Add(1)
			}
		}()
	}
	wg.Wait()

	res := loadResult{
		CacheHits:   int(hits.Load()),
		CacheMisses: int(misses.Load()),
		Failed:      map[string]error{},
	}
	for i, d := range slots {
		if d != nil {
			res.Docs = append(res.Docs, *d)
		} else if errs[i] != nil {
			res.Failed[files[i]] = errs[i]
		}
	}
	return res
}
