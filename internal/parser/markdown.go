package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser strips Markdown syntax using goldmark, keeping one paragraph
// of text per block.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// blockText gets the text content of a goldmark block, recursing into lists
// and quotes so nested blocks stay separated.
func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindList, ast.KindBlockquote, ast.KindListItem:
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t := blockText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n")
	case ast.KindThematicBreak, ast.KindHTMLBlock:
		return ""
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimRight(buf.String(), "\n")
	}
	return strings.TrimSpace(inlineText(n, src))
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeSpan:
			buf.WriteString(inlineText(node, src))
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// inline tags carry no prose
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
