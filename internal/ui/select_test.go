package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/officekit/internal/llm"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectModel_Navigation(t *testing.T) {
	var m tea.Model = selectModel{title: "Pick", options: []Option{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("down")) // clamps at the last row
	m, _ = m.Update(key("up"))
	m, cmd := m.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, "b", m.(selectModel).selected)
	assert.False(t, m.(selectModel).quit)
}

func TestSelectModel_Cancel(t *testing.T) {
	var m tea.Model = selectModel{options: []Option{{ID: "a"}}}
	m, _ = m.Update(key("esc"))
	assert.True(t, m.(selectModel).quit)
	assert.Empty(t, m.(selectModel).selected)
}

func TestSelectModel_View(t *testing.T) {
	m := selectModel{title: "Pick", options: []Option{{ID: "a", Label: "alpha", Description: "first"}}}
	view := m.View()
	assert.Contains(t, view, "Pick")
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "first")
}

func TestPromptSelect_Empty(t *testing.T) {
	_, err := PromptSelect("Pick", nil)
	assert.Error(t, err)
}

func TestProviderOptions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")

	opts := ProviderOptions()
	require.Len(t, opts, len(llm.SupportedProviders))

	byID := make(map[string]Option)
	for _, o := range opts {
		byID[o.ID] = o
	}
	assert.Equal(t, "key found", byID[llm.ProviderOpenAI].Description)
	assert.Equal(t, "key not set", byID[llm.ProviderAnthropic].Description)
	assert.Equal(t, "local, no key needed", byID[llm.ProviderOllama].Description)
}

func TestModelOptions_DefaultFirst(t *testing.T) {
	opts := ModelOptions(llm.ProviderOpenAI)
	require.NotEmpty(t, opts)
	assert.Contains(t, opts[0].Description, "default")
}
