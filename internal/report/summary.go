package report

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summary returns the first paragraph of the report body, for listings.
// Headings are skipped so a body that opens with a title still yields its
// first sentence of prose.
func (r *Report) Summary() string {
	if strings.TrimSpace(r.Body) == "" {
		return ""
	}

	src := []byte(r.Body)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		para, ok := node.(*ast.Paragraph)
		if !ok {
			continue
		}
		var b strings.Builder
		for child := para.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				b.Write(textNode.Segment.Value(src))
				if textNode.SoftLineBreak() || textNode.HardLineBreak() {
					b.WriteString(" ")
				}
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return ""
}
