package main

import "github.com/asynkron/supermaxrep"

// Document is one loaded corpus file.
type Document struct {
	Path  string
	Text  string
	Bytes int64
}

// JSON output structures

type JSONLocation struct {
	Document string `json:"document"`
	DocIdx   int    `json:"doc_idx"`
	Start    int    `json:"start"`
}

type JSONRepeat struct {
	Text        string         `json:"text"`
	Len         int            `json:"len"`
	Occurrences int            `json:"occurrences"`
	Document    string         `json:"document"`
	Start       int            `json:"start"`
	Locations   []JSONLocation `json:"locations"`
}

type JSONOutput struct {
	Mode         string            `json:"mode"`
	MinLen       int               `json:"min_len"`
	MinOcc       int               `json:"min_occ"`
	Documents    []string          `json:"documents"`
	Stats        supermaxrep.Stats `json:"stats"`
	TotalRepeats int               `json:"total_repeats"`
	Repeats      []JSONRepeat      `json:"repeats"`
}

// IgnoreFile represents the structure of ignore.json
type IgnoreFile struct {
	Description string   `json:"description"`
	Ignored     []string `json:"ignored"`
}
