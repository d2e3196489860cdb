package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/star/internal/domain"
)

// Colors defines the color palette for the board.
var Colors = struct {
	Primary   lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Started   lipgloss.Color
	Completed lipgloss.Color
	Stopped   lipgloss.Color
	Selected  lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Started:   lipgloss.Color("#FDCB6E"), // Yellow
	Completed: lipgloss.Color("#00B894"), // Green
	Stopped:   lipgloss.Color("#74B9FF"), // Light blue
	Selected:  lipgloss.Color("#FFEAA7"), // Pale yellow
}

// Styles contains the lipgloss styles of the board.
type Styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Section  lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		Section: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Text: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Cursor: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(Colors.Selected).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		Footer: lipgloss.NewStyle().
			MarginTop(1),
	}
}

// EventStyle returns the style of an event label.
func EventStyle(label domain.EventLabel) lipgloss.Style {
	switch label {
	case domain.EventStarted:
		return lipgloss.NewStyle().Foreground(Colors.Started)
	case domain.EventCompleted:
		return lipgloss.NewStyle().Foreground(Colors.Completed)
	case domain.EventStopped:
		return lipgloss.NewStyle().Foreground(Colors.Stopped)
	default:
		return lipgloss.NewStyle().Foreground(Colors.Muted)
	}
}
