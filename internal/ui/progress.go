package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/officekit/internal/pipeline"
)

type stageStatus int

const (
	stageRunning stageStatus = iota
	stageDone
	stageFailed
)

type stageState struct {
	name    pipeline.Stage
	status  stageStatus
	started time.Time
	elapsed time.Duration
	err     error
}

type stageStartedMsg struct {
	stage pipeline.Stage
	at    time.Time
}

type stageFinishedMsg struct {
	stage pipeline.Stage
	err   error
	at    time.Time
}

type progressDoneMsg struct{}

// progressModel is the bubbletea model behind ProgressReporter.
type progressModel struct {
	title    string
	spinner  spinner.Model
	stages   []*stageState
	quitting bool
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	return progressModel{title: title, spinner: s}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case stageStartedMsg:
		m.stages = append(m.stages, &stageState{name: msg.stage, started: msg.at})

	case stageFinishedMsg:
		for i := len(m.stages) - 1; i >= 0; i-- {
			st := m.stages[i]
			if st.name != msg.stage || st.status != stageRunning {
				continue
			}
			st.elapsed = msg.at.Sub(st.started)
			st.err = msg.err
			st.status = stageDone
			if msg.err != nil {
				st.status = stageFailed
			}
			break
		}

	case progressDoneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var s strings.Builder
	s.WriteString(" " + StyleTitle.Render(m.title) + "\n")
	for _, st := range m.stages {
		s.WriteString(" ")
		name := fmt.Sprintf("%-10s", st.name)
		switch st.status {
		case stageRunning:
			s.WriteString(m.spinner.View() + " " + StyleTitle.Render(name))
		case stageDone:
			s.WriteString(StyleSuccess.Render("✓") + " " + StyleTitle.Render(name) + " " +
				StyleSubtle.Render(st.elapsed.Round(10*time.Millisecond).String()))
		case stageFailed:
			s.WriteString(StyleError.Render("✗") + " " + StyleTitle.Render(name) + " " +
				StyleError.Render(st.err.Error()))
		}
		s.WriteString("\n")
	}
	return s.String()
}

// ProgressReporter shows pipeline stages with a spinner while they run.
type ProgressReporter struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// NewProgressReporter starts the progress view on out. Call Stop when the turn ends.
func NewProgressReporter(title string, out io.Writer) *ProgressReporter {
	p := tea.NewProgram(newProgressModel(title), tea.WithOutput(out), tea.WithInput(nil))
	r := &ProgressReporter{program: p, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		_, _ = p.Run()
	}()
	return r
}

// StageStarted implements pipeline.Reporter.
func (r *ProgressReporter) StageStarted(stage pipeline.Stage) {
	r.program.Send(stageStartedMsg{stage: stage, at: time.Now()})
}

// StageFinished implements pipeline.Reporter.
func (r *ProgressReporter) StageFinished(stage pipeline.Stage, err error) {
	r.program.Send(stageFinishedMsg{stage: stage, err: err, at: time.Now()})
}

// Stop ends the view and waits for the final frame to be drawn.
func (r *ProgressReporter) Stop() {
	r.once.Do(func() {
		r.program.Send(progressDoneMsg{})
		<-r.done
	})
}

// LineReporter prints one line per finished stage. Used when stdout is not a terminal.
type LineReporter struct {
	Out io.Writer

	mu      sync.Mutex
	started map[pipeline.Stage]time.Time
}

// StageStarted implements pipeline.Reporter.
func (r *LineReporter) StageStarted(stage pipeline.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started == nil {
		r.started = make(map[pipeline.Stage]time.Time)
	}
	r.started[stage] = time.Now()
}

// StageFinished implements pipeline.Reporter.
func (r *LineReporter) StageFinished(stage pipeline.Stage, err error) {
	r.mu.Lock()
	elapsed := time.Since(r.started[stage])
	r.mu.Unlock()

	if err != nil {
		_, _ = fmt.Fprintf(r.Out, "%s failed after %s: %v\n", stage, elapsed.Round(time.Millisecond), err)
		return
	}
	_, _ = fmt.Fprintf(r.Out, "%s done in %s\n", stage, elapsed.Round(time.Millisecond))
}

// Stop is a no-op; it lets callers treat both reporters alike.
func (r *LineReporter) Stop() {}
