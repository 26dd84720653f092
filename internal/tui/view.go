package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/workflow"
)

// View renders the TUI.
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()

	var content string
	switch {
	case snap.IsLoading:
		content = m.viewLoading()
	case snap.State == workflow.StateEmpty:
		content = m.viewEmpty(snap)
	default:
		content = m.viewTask(snap)
	}

	return m.styles.App.Render(content)
}

func (m *Model) viewLoading() string {
	return m.spinner.View() + " " + m.styles.Loading.Render("Loading...")
}

// viewEmpty renders the no-task state, either because the queue is empty or
// because the request for a task failed.
func (m *Model) viewEmpty(snap workflow.Snapshot) string {
	var b strings.Builder
	if snap.Err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Could not load a task: " + snap.Err.Error()))
	} else {
		b.WriteString(m.styles.EmptyState.Render("No tasks found..."))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// viewTask renders the current task with the reply editor.
func (m *Model) viewTask(snap workflow.Snapshot) string {
	width := m.columnWidth()
	card := m.styles.Card.Width(width - 2) // border is outside Width

	left := card.Render(m.viewInstructions(snap.CurrentTask))
	right := card.Render(m.viewEditor(snap.DraftText))

	var body string
	if m.stacked() {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.viewFooter(snap))
	return b.String()
}

func (m *Model) viewInstructions(task *domain.Task) string {
	lines := []string{
		m.styles.CardTitle.Render(m.prompt.Title),
		m.styles.CardText.Render(m.prompt.Description),
	}
	if task != nil && task.Hint != "" {
		lines = append(lines, "", m.styles.Hint.Render(task.Hint))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewEditor(draft string) string {
	return strings.Join([]string{
		m.styles.CardTitle.Render(m.prompt.Heading),
		m.editor.View(),
		m.viewCounter(draft),
	}, "\n")
}

// viewCounter renders the draft length against the prompt markers.
// It is informational only; short drafts can still be submitted.
func (m *Model) viewCounter(draft string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(draft))
	level := m.prompt.Level(n)
	color := LengthColor(level)

	pct := 1.0
	if m.prompt.Goal > 0 && n < m.prompt.Goal {
		pct = float64(n) / float64(m.prompt.Goal)
	}
	bar := m.progress
	bar.FullColor = string(color)

	counter := m.styles.CounterBase.Foreground(color).Render(fmt.Sprintf("%d/%d", n, m.prompt.Goal))
	return bar.ViewAs(pct) + " " + counter
}

func (m *Model) viewFooter(snap workflow.Snapshot) string {
	var b strings.Builder
	if snap.Err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + snap.Err.Error()))
		b.WriteString("\n")
	}
	if snap.CurrentTask != nil {
		b.WriteString(m.styles.TaskID.Render(fmt.Sprintf("Task %s · %d received this session", snap.CurrentTask.ID, snap.HistoryLen)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
