package text

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// PlainText extracts the readable text of a Markdown document. Code blocks
// and raw HTML are dropped; headings, paragraphs and list items each end
// up in their own paragraph.
func PlainText(source string) string {
	reader := gmtext.NewReader([]byte(source))
	doc := markdown.Parser().Parse(reader)

	var blocks []string
	var buf strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		collectBlocks(n, reader.Source(), &buf, &blocks)
	}
	return strings.Join(blocks, "\n\n")
}

func collectBlocks(node ast.Node, source []byte, buf *strings.Builder, blocks *[]string) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
		return

	case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
		buf.Reset()
		writeInline(n, source, buf)
		if s := strings.TrimSpace(buf.String()); s != "" {
			*blocks = append(*blocks, s)
		}

	default:
		// Lists, list items and blockquotes only contain other blocks.
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			collectBlocks(c, source, buf, blocks)
		}
	}
}

func writeInline(node ast.Node, source []byte, buf *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		case *ast.RawHTML:
			// skipped
		case *ast.Image:
			// alt text only
			writeInline(n, source, buf)
		case *ast.AutoLink:
			buf.Write(n.Label(source))
		default:
			// Emphasis, links and code spans read as their text.
			writeInline(n, source, buf)
		}
	}
}
