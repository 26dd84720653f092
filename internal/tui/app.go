// Package tui provides the terminal user interface for promptdesk.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/workflow"
)

// Model is the main bubbletea model for the TUI.
// It renders the controller's snapshot and turns key presses into
// controller events; it never touches the task history itself.
type Model struct {
	// Dependencies
	ctrl *workflow.Controller

	// Components
	keys     KeyMap
	styles   Styles
	prompt   domain.PromptConfig
	help     help.Model
	editor   textarea.Model
	spinner  spinner.Model
	progress progress.Model

	// Layout
	width  int
	height int
}

// New creates a new TUI Model driving the given controller.
func New(ctrl *workflow.Controller, prompt domain.PromptConfig) *Model {
	ta := textarea.New()
	ta.Placeholder = prompt.Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Loading

	keys := DefaultKeyMap()
	keys.setState(false, false)

	return &Model{
		ctrl:     ctrl,
		keys:     keys,
		styles:   DefaultStyles(),
		prompt:   prompt,
		help:     help.New(),
		editor:   ta,
		spinner:  sp,
		progress: progress.New(progress.WithSolidFill(string(Colors.Muted)), progress.WithoutPercentage()),
	}
}

// Init issues the bootstrap fetch and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.run(m.ctrl.Activate()),
		m.spinner.Tick,
		textarea.Blink,
	)
}

// run returns a command that performs req off the event loop.
// A nil request (trigger ignored by the controller) yields no command.
func (m *Model) run(req *workflow.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return MsgRequestDone{Result: req.Run()}
	}
}

// syncEditor makes the editor reflect the controller's draft and state.
func (m *Model) syncEditor() tea.Cmd {
	snap := m.ctrl.Snapshot()
	if m.editor.Value() != snap.DraftText {
		m.editor.SetValue(snap.DraftText)
	}
	m.keys.setState(snap.State == workflow.StateReady, snap.State == workflow.StateEmpty)
	if snap.State == workflow.StateReady {
		return m.editor.Focus()
	}
	m.editor.Blur()
	return nil
}
