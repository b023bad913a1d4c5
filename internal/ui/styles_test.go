package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)

	out := StyleSuccess.Render("Test")
	assert.Contains(t, out, "Test")
	assert.NotEqual(t, "Test", out, "Style should add ANSI codes when forced")
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, StyleSuccess, StatusStyle("generated"))
	assert.Equal(t, StyleWarning, StatusStyle("rejected"))
	assert.Equal(t, StyleError, StatusStyle("codegen_failed"))
	assert.Equal(t, StyleSubtle, StatusStyle("something-else"))
}
