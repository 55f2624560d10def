package render

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightMarkdown writes markdown to w with ANSI colours from the named chroma style.
// On failure the caller should fall back to plain text.
func HighlightMarkdown(w io.Writer, markdown string, theme string) error {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, markdown)
	if err != nil {
		return err
	}

	return formatter.Format(w, style, iterator)
}

// KnownStyle reports whether chroma ships a style called name.
func KnownStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}
