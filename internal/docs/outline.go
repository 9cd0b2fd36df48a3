package docs

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a topic's outline. Line is 1-based.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Outline extracts a topic's headings in document order. The content
// is parsed as markdown, so a # inside a code fence is not a heading.
func Outline(content []byte) []Heading {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))
	lineStarts := computeLineStarts(string(content))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headingText := collectHeadingText(heading, content)
		if headingText == "" {
			return ast.WalkContinue, nil
		}
		line := 1
		if heading.Lines().Len() > 0 {
			line = offsetToLine(lineStarts, heading.Lines().At(0).Start) + 1
		}
		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  line,
		})
		return ast.WalkContinue, nil
	})
	return headings
}

// collectHeadingText concatenates the text children of a heading node.
// Goldmark splits text at inline markup, so one child is not enough.
func collectHeadingText(heading *ast.Heading, content []byte) string {
	var b strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if textNode, ok := n.(*ast.Text); ok {
			b.Write(textNode.Segment.Value(content))
		}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			walk(child)
		}
	}
	walk(heading)
	return strings.TrimSpace(b.String())
}

func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
