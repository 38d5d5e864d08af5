package parser

import (
	"io"
	"strings"
	"unicode/utf8"
)

// TextParser handles plain text files. Content is kept verbatim apart from
// CRLF line endings and invalid UTF-8, which is replaced.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
