// Package render shows drafts in the terminal before they are published.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/amsterdam/internal/model"
)

type Options struct {
	// Style is a chroma style name.
	Style     string
	Highlight bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("250"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Width(10)
	headerBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginTop(1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Preview writes a summary of draft followed by its body.
func Preview(w io.Writer, path string, draft model.Draft, opts Options) error {
	lines := []string{titleStyle.Render(draft.Title)}
	if draft.Subtitle != "" {
		lines = append(lines, subtitleStyle.Render(draft.Subtitle))
	}
	lines = append(lines, "")

	field := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("none")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
	}
	field("file", path)
	field("tags", formatTags(draft.Tags))
	field("date", draft.CreationDate)
	field("license", draft.License)
	field("published", strconv.FormatBool(draft.Published))

	if _, err := fmt.Fprintln(w, headerBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))); err != nil {
		return err
	}

	outline := Analyze(draft.Body)
	fmt.Fprintln(w, sectionStyle.Render("Outline"))
	if len(outline.Headings) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no headings"))
	}
	for _, h := range outline.Headings {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
		"%d words, %d code blocks, %d links, %d images",
		outline.Words, outline.CodeBlocks, outline.Links, outline.Images,
	)))

	fmt.Fprintln(w, sectionStyle.Render("Body"))
	if opts.Highlight {
		if err := HighlightMarkdown(w, draft.Body, opts.Style); err == nil {
			_, err = fmt.Fprintln(w)
			return err
		}
	}
	_, err := fmt.Fprintln(w, draft.Body)
	return err
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = strconv.Quote(t)
	}
	return strings.Join(quoted, ", ")
}
