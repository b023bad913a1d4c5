package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("cancelled")

var (
	styleSelectTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
	styleSelectActive = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	styleSelectNormal = lipgloss.NewStyle().Foreground(ColorText)
)

// Option is one row of a selection list.
type Option struct {
	ID          string
	Label       string
	Description string
}

type selectModel struct {
	title    string
	options  []Option
	cursor   int
	selected string
	quit     bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.options) > 0 {
			m.selected = m.options[m.cursor].ID
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n" + styleSelectTitle.Render(m.title) + "\n\n")

	width := 0
	for _, o := range m.options {
		width = max(width, lipgloss.Width(o.Label))
	}
	for i, o := range m.options {
		cursor, style := "  ", styleSelectNormal
		if i == m.cursor {
			cursor, style = "▶ ", styleSelectActive
		}
		sb.WriteString(cursor + style.Render(padRight(o.Label, width)))
		if o.Description != "" {
			sb.WriteString(StyleSubtle.Render("  " + o.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + StyleSubtle.Render("↑/↓ navigate • enter select • esc cancel") + "\n")
	return sb.String()
}

// PromptSelect shows options and returns the chosen ID.
func PromptSelect(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", title)
	}
	final, err := tea.NewProgram(selectModel{title: title, options: options}).Run()
	if err != nil {
		return "", fmt.Errorf("run selection: %w", err)
	}
	result := final.(selectModel)
	if result.quit {
		return "", ErrCancelled
	}
	return result.selected, nil
}

// ProviderOptions lists supported providers and whether a key is available.
func ProviderOptions() []Option {
	opts := make([]Option, 0, len(llm.SupportedProviders))
	for _, p := range llm.SupportedProviders {
		desc := "key found"
		switch {
		case p == llm.ProviderOllama:
			desc = "local, no key needed"
		case config.ResolveAPIKey(p) == "":
			desc = "key not set"
		}
		opts = append(opts, Option{ID: string(p), Label: string(p), Description: desc})
	}
	return opts
}

// ModelOptions lists the known models of a provider, default first.
func ModelOptions(provider string) []Option {
	models := llm.GetModelsForProvider(provider)
	opts := make([]Option, 0, len(models))
	for _, m := range models {
		desc := fmt.Sprintf("%s • %s", m.Tier, m.PriceInfo)
		if m.IsDefault {
			desc += " • default"
		}
		opts = append(opts, Option{ID: m.ID, Label: m.ID, Description: desc})
	}
	return opts
}

// LLMSelection contains the result of provider + model selection.
type LLMSelection struct {
	Provider string
	Model    string
}

// PromptLLMSelection runs provider selection then model selection.
func PromptLLMSelection() (*LLMSelection, error) {
	provider, err := PromptSelect("Select AI provider", ProviderOptions())
	if err != nil {
		return nil, err
	}
	models := ModelOptions(provider)
	if len(models) == 0 {
		return &LLMSelection{Provider: provider, Model: llm.DefaultModelForProvider(provider)}, nil
	}
	model, err := PromptSelect("Select model for "+provider, models)
	if err != nil {
		return nil, err
	}
	return &LLMSelection{Provider: provider, Model: model}, nil
}

type secretModel struct {
	label string
	input textinput.Model
	value string
	quit  bool
}

func (m secretModel) Init() tea.Cmd { return textinput.Blink }

func (m secretModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m secretModel) View() string {
	return fmt.Sprintf("\n%s\n\n%s\n\n%s\n",
		styleSelectTitle.Render(m.label),
		m.input.View(),
		StyleSubtle.Render("enter confirm • esc cancel"))
}

// PromptSecret asks for a value without echoing it, e.g. an API key.
func PromptSecret(label string) (string, error) {
	ti := textinput.New()
	ti.Placeholder = "api-key"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	final, err := tea.NewProgram(secretModel{label: label, input: ti}).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	result := final.(secretModel)
	if result.quit {
		return "", ErrCancelled
	}
	return result.value, nil
}
