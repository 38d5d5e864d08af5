// Package parser extracts plain text from the document formats a corpus is
// usually made of, transparently decompressing wrapped files.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parser converts raw document bytes into plain text.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists document extensions this package can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename. Compression suffixes
// must already be stripped.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// DocumentExt returns the document extension of filename, looking through a
// compression suffix: "notes.md.gz" yields ".md".
func DocumentExt(filename string) string {
	name := filename
	if isCompressed(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return strings.ToLower(filepath.Ext(name))
}

// IsSupported reports whether filename is a supported document, possibly
// compressed.
func IsSupported(filename string) bool {
	return SupportedExtensions[DocumentExt(filename)]
}

// LoadFile reads, decompresses and parses a document from disk.
func LoadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

// Load decompresses r according to filename's outer extension and parses the
// result with the parser for the inner extension.
func Load(r io.Reader, filename string) (string, error) {
	rc, inner, err := Decompress(r, filename)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	p, err := ForFile(inner)
	if err != nil {
		return "", err
	}
	text, err := p.Parse(rc, inner)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	return text, nil
}
