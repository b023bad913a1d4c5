package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for the terminal, wrapped at width. On failure
// the source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// RenderHighlighted shows code with syntax highlighting on a terminal and
// in a plain box otherwise, so piped output stays copyable.
func RenderHighlighted(lang, code string) string {
	if !IsInteractive() {
		return RenderCode(lang, code)
	}
	fenced := "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```\n"
	return RenderMarkdown(fenced, TerminalWidth(100)-4)
}
