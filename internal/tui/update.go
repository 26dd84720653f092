package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/promptdesk/internal/workflow"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgRequestDone:
		m.ctrl.Apply(msg.Result)
		return m, m.syncEditor()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other editor messages
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// handleKeyMsg routes key presses to controller events or to the editor.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateLayoutSizes()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.trigger(m.ctrl.Submit())

	case key.Matches(msg, m.keys.Skip):
		return m, m.trigger(m.ctrl.Skip())

	case key.Matches(msg, m.keys.Retry):
		return m, m.trigger(m.ctrl.Retry())
	}

	if m.ctrl.State() != workflow.StateReady {
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.ctrl.SetDraft(m.editor.Value())
	return m, cmd
}

// trigger runs req and updates the key state for the Loading state.
func (m *Model) trigger(req *workflow.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	return tea.Batch(m.syncEditor(), m.run(req))
}

// updateLayoutSizes recalculates component sizes after a resize.
func (m *Model) updateLayoutSizes() {
	colWidth := m.columnWidth()
	editorWidth := colWidth - 6 // card border + padding
	if editorWidth < 20 {
		editorWidth = 20
	}
	m.editor.SetWidth(editorWidth)
	m.progress.Width = editorWidth

	editorHeight := m.height - 18
	if m.help.ShowAll {
		editorHeight -= 2
	}
	if editorHeight < 3 {
		editorHeight = 3
	}
	if editorHeight > 12 {
		editorHeight = 12
	}
	m.editor.SetHeight(editorHeight)
}

// stacked reports whether the cards are rendered on top of each other.
func (m *Model) stacked() bool {
	return m.width != 0 && m.width < 90
}

// defaultWidth is used before the first WindowSizeMsg arrives.
const defaultWidth = 100

// columnWidth returns the outer width of one card.
func (m *Model) columnWidth() int {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	inner := width - 4 // app padding
	if m.stacked() {
		return inner
	}
	return (inner - 2) / 2
}
