package parser

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

func TestTextParser_NormalizesLineEndings(t *testing.T) {
	p := &TextParser{}
	got, err := p.Parse(strings.NewReader("one\r\ntwo\r\n"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "one\ntwo\n" {
		t.Errorf("expected %q, got %q", "one\ntwo\n", got)
	}
}

func TestTextParser_ReplacesInvalidUTF8(t *testing.T) {
	p := &TextParser{}
	got, err := p.Parse(bytes.NewReader([]byte{'a', 0xff, 'b'}), "bad.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a�b" {
		t.Errorf("expected replacement character, got %q", got)
	}
}

func TestMarkdownParser_StripsSyntax(t *testing.T) {
	input := "# Title\n\nSome *emphasis* text.\n\n- one\n- two\n"
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Title\n\nSome emphasis text.\n\none\ntwo"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_KeepsCodeBlocks(t *testing.T) {
	input := "Intro.\n\n```\nfmt.Println(1)\n```\n"
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "fmt.Println(1)") {
		t.Errorf("expected code block content, got %q", got)
	}
}

func TestHTMLParser_VisibleText(t *testing.T) {
	input := `<html><head><title>T</title><style>p{}</style></head>
<body><h1>Head</h1><p>Hello <b>world</b></p><script>x()</script></body></html>`
	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Head\nHello world" {
		t.Errorf("expected %q, got %q", "Head\nHello world", got)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.txt", false},
		{"a.MD", false},
		{"a.htm", false},
		{"a.pdf", false},
		{"a.docx", false},
		{"a.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ForFile(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.name)
				}
				return
			}
			if err != nil || p == nil {
				t.Errorf("expected parser for %s, got %v", tt.name, err)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"essay.txt":    true,
		"essay.txt.gz": true,
		"notes.md.zst": true,
		"page.html.br": true,
		"archive.gz":   false,
		"image.png":    false,
	} {
		if got := IsSupported(name); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDocumentExt(t *testing.T) {
	if got := DocumentExt("report.MD.xz"); got != ".md" {
		t.Errorf("expected .md, got %q", got)
	}
	if got := DocumentExt("plain.txt"); got != ".txt" {
		t.Errorf("expected .txt, got %q", got)
	}
}

func compressWith(t *testing.T, ext string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch ext {
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".zst":
		w, err = zstd.NewWriter(&buf)
	case ".xz":
		w, err = xz.NewWriter(&buf)
	case ".bz2":
		w, err = bzip2.NewWriter(&buf, nil)
	default:
		t.Fatalf("no writer for %s", ext)
	}
	if err != nil {
		t.Fatalf("create %s writer: %v", ext, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write %s: %v", ext, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close %s: %v", ext, err)
	}
	return buf.Bytes()
}

func TestLoad_Decompresses(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog\n"
	for _, ext := range []string{".gz", ".zst", ".xz", ".bz2"} {
		t.Run(ext, func(t *testing.T) {
			data := compressWith(t, ext, []byte(text))
			got, err := Load(bytes.NewReader(data), "fox.txt"+ext)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != text {
				t.Errorf("expected %q, got %q", text, got)
			}
		})
	}
}

func TestLoad_CorruptInput(t *testing.T) {
	_, err := Load(strings.NewReader("not gzip"), "fox.txt.gz")
	if err == nil {
		t.Fatal("expected error for corrupt gzip input")
	}
}

func TestDecompress_PassThrough(t *testing.T) {
	rc, name, err := Decompress(strings.NewReader("abc"), "plain.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	if name != "plain.txt" {
		t.Errorf("expected unchanged name, got %q", name)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "abc" {
		t.Errorf("expected pass-through content, got %q", data)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md.gz")
	if err := os.WriteFile(path, compressWith(t, ".gz", []byte("Hello **there**.\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello there." {
		t.Errorf("expected %q, got %q", "Hello there.", got)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
