package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/promptdesk/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Border     lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray
	Text:       lipgloss.Color("#DFE6E9"), // Light gray
	Border:     lipgloss.Color("#636E72"),
}

// Styles holds the lipgloss styles used by the views.
type Styles struct {
	App         lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	CardText    lipgloss.Style
	Hint        lipgloss.Style
	TaskID      lipgloss.Style
	Footer      lipgloss.Style
	ErrorMsg    lipgloss.Style
	EmptyState  lipgloss.Style
	Loading     lipgloss.Style
	CounterBase lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Border).
			Padding(1, 2),
		CardTitle: lipgloss.NewStyle().
			Foreground(Colors.Text).
			Bold(true),
		CardText: lipgloss.NewStyle().
			Foreground(Colors.Text),
		Hint: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Italic(true),
		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		EmptyState: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Align(lipgloss.Center),
		Loading: lipgloss.NewStyle().
			Foreground(Colors.Primary),
		CounterBase: lipgloss.NewStyle().
			Bold(true),
	}
}

// LengthColor returns the color of the draft counter for a length level.
func LengthColor(level domain.LengthLevel) lipgloss.Color {
	switch level {
	case domain.LengthNone:
		return Colors.Error
	case domain.LengthLow:
		return Colors.Warning
	case domain.LengthMedium:
		return Colors.Secondary
	case domain.LengthGoal:
		return Colors.Success
	}
	return Colors.Muted
}
