package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel is a bordered box with an optional title.
type Panel struct {
	Title       string
	Content     string
	BorderColor lipgloss.Color
	Width       int
}

// NewPanel creates a panel with the default border.
func NewPanel(title, content string) *Panel {
	return &Panel{Title: title, Content: content, BorderColor: ColorSecondary}
}

// WithBorderColor sets the border color and returns the panel.
func (p *Panel) WithBorderColor(color lipgloss.Color) *Panel {
	p.BorderColor = color
	return p
}

// Render returns the styled panel.
func (p *Panel) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderColor).
		Padding(0, 1)
	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	content := p.Content
	if p.Title != "" {
		content = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render(p.Title) + "\n" + p.Content
	}
	return style.Render(content)
}

// RenderCode boxes a code snippet under a language label.
func RenderCode(label, code string) string {
	return StyleCodeBox.Render(StyleSubtle.Render(label) + "\n" + strings.TrimRight(code, "\n"))
}

// RenderError formats an error and an optional hint for the terminal.
func RenderError(err error, hint string) string {
	var sb strings.Builder
	sb.WriteString(StyleError.Render("✗ " + err.Error()))
	if hint != "" {
		sb.WriteString("\n  " + StyleSubtle.Render(hint))
	}
	return sb.String()
}

// KeyValues prints aligned "key: value" lines.
func KeyValues(w io.Writer, pairs [][2]string) {
	width := 0
	for _, kv := range pairs {
		width = max(width, lipgloss.Width(kv[0]))
	}
	for _, kv := range pairs {
		_, _ = fmt.Fprintf(w, "  %s  %s\n", StyleSubtle.Render(padRight(kv[0]+":", width+1)), kv[1])
	}
}
