package display

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RenderMarkdown flattens a markdown final output into plain terminal
// text: headings become underlined captions, lists keep their bullets,
// code blocks are indented. Inline emphasis markers are dropped.
func RenderMarkdown(source string) string {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			caption := nodeText(node, src)
			sb.WriteString(caption + "\n")
			sb.WriteString(strings.Repeat("-", len(caption)) + "\n")
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			// List item paragraphs are handled by their item.
			if _, inItem := node.Parent().(*ast.ListItem); inItem {
				return ast.WalkSkipChildren, nil
			}
			sb.WriteString(nodeText(node, src) + "\n\n")
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			sb.WriteString("  - " + strings.TrimSpace(nodeText(node, src)) + "\n")
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.WriteString("    " + strings.TrimRight(string(seg.Value(src)), "\n") + "\n")
			}
			sb.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// nodeText collects the raw text under a node.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
