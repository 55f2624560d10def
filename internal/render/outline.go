package render

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

type Heading struct {
	Level int
	Text  string
}

// Outline is what the body looks like once parsed as Markdown.
type Outline struct {
	Headings   []Heading
	Words      int
	CodeBlocks int
	Links      int
	Images     int
}

// Analyze parses body and collects its outline. Words inside code are not counted.
func Analyze(body string) Outline {
	p := parser.NewWithExtensions(
		parser.CommonExtensions | parser.Footnotes | parser.NoEmptyLineBeforeBlock,
	)
	doc := markdown.Parse(markdown.NormalizeNewlines([]byte(body)), p)

	var out Outline
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.Heading:
			out.Headings = append(out.Headings, Heading{Level: n.Level, Text: plainText(n)})
		case *ast.CodeBlock:
			out.CodeBlocks++
		case *ast.Link:
			out.Links++
		case *ast.Image:
			out.Images++
		case *ast.Text:
			out.Words += len(strings.Fields(string(n.Literal)))
		}
		return ast.GoToNext
	})

	return out
}

func plainText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch leaf := n.(type) {
		case *ast.Text:
			sb.Write(leaf.Literal)
		case *ast.Code:
			sb.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}
