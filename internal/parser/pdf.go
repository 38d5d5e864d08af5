package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser extracts the plain text of every page, separated by newlines.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (string, error) {
	// ledongthuc/pdf needs a file on disk.
	tmp, err := os.CreateTemp("", "supermaxrep-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}
