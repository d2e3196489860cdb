// Package tui provides the interactive board for a single record.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase"
	"github.com/runoshun/star/internal/usecase/shared"
)

// RecordShower loads the record shown on the board.
type RecordShower interface {
	Execute(ctx context.Context, in usecase.ShowRecordInput) (*usecase.ShowRecordOutput, error)
}

// StatusUpdater records status events.
type StatusUpdater interface {
	Execute(ctx context.Context, in usecase.UpdateStatusInput) (*usecase.UpdateStatusOutput, error)
}

// Model is the board model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	shower  RecordShower
	updater StatusUpdater

	// State
	out    *usecase.ShowRecordOutput
	err    error
	notice string
	path   string
	layout string

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	// Numeric state
	cursor int
	width  int
	height int

	// Boolean state
	loading bool
}

// New creates a board for the record document at path.
func New(shower RecordShower, updater StatusUpdater, path, layout string) *Model {
	if layout == "" {
		layout = domain.DefaultTimeFormat
	}
	return &Model{
		shower:  shower,
		updater: updater,
		path:    path,
		layout:  layout,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
		loading: true,
	}
}

// Init loads the record.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		out, err := m.shower.Execute(context.Background(), usecase.ShowRecordInput{Path: m.path})
		return MsgRecordLoaded{Out: out, Err: err}
	}
}

func (m *Model) record(ref string, event domain.EventLabel) tea.Cmd {
	return func() tea.Msg {
		out, err := m.updater.Execute(context.Background(), usecase.UpdateStatusInput{
			Path:  m.path,
			Ref:   ref,
			Event: event,
		})
		return MsgStatusUpdated{Out: out, Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgRecordLoaded:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.out = msg.Out
		if m.cursor >= len(m.out.Actions) {
			m.cursor = max(len(m.out.Actions)-1, 0)
		}
		return m, nil

	case MsgStatusUpdated:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.notice = statusNotice(msg.Out)
		return m, m.load()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.out != nil && m.cursor < len(m.out.Actions)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Start):
		return m, m.recordSelected(domain.EventStarted)
	case key.Matches(msg, m.keys.Done):
		return m, m.recordSelected(domain.EventCompleted)
	case key.Matches(msg, m.keys.Stop):
		return m, m.recordSelected(domain.EventStopped)

	case key.Matches(msg, m.keys.StartRecord):
		return m, m.record("", domain.EventStarted)
	case key.Matches(msg, m.keys.DoneRecord):
		return m, m.record("", domain.EventCompleted)
	case key.Matches(msg, m.keys.StopRecord):
		return m, m.record("", domain.EventStopped)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// recordSelected records event on the action under the cursor.
func (m *Model) recordSelected(event domain.EventLabel) tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	if row.IsList {
		m.err = fmt.Errorf("%s is a list, select an action item", row.Path)
		return nil
	}
	return m.record(row.ID, event)
}

func (m *Model) selected() (shared.Row, bool) {
	if m.out == nil || m.cursor < 0 || m.cursor >= len(m.out.Actions) {
		return shared.Row{}, false
	}
	return m.out.Actions[m.cursor], true
}

func statusNotice(out *usecase.UpdateStatusOutput) string {
	if out.Title == "" {
		return fmt.Sprintf("%s record", out.Entry.Label.Display())
	}
	return fmt.Sprintf("%s %q", out.Entry.Label.Display(), out.Title)
}

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder

	switch {
	case m.out != nil:
		m.viewRecord(&b)
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading record..."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

func (m *Model) viewRecord(b *strings.Builder) {
	out := m.out
	b.WriteString(m.styles.Title.Render("Record " + out.Record.ID()))
	b.WriteString("  ")
	if out.HasStatus {
		status := out.Status.Label.Display() + " " + out.Status.Time.Format(m.layout)
		if out.Status.Title != "" {
			status += " (" + out.Status.Title + ")"
		}
		b.WriteString(EventStyle(out.Status.Label).Render(status))
	} else {
		b.WriteString(m.styles.Muted.Render("not started"))
	}
	b.WriteString("\n")

	if out.Record.Task != "" {
		b.WriteString(m.styles.Text.Render(firstLine(out.Record.Task)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Section.Render("Actions"))
	b.WriteString("\n")
	if len(out.Actions) == 0 {
		b.WriteString(m.styles.Muted.Render("  no actions"))
		b.WriteString("\n")
	}
	for i, row := range out.Actions {
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteString("\n")
	}

	if len(out.Results) > 0 {
		b.WriteString(m.styles.Section.Render("Results"))
		b.WriteString("\n")
		for _, row := range out.Results {
			text := row.Text
			if row.IsList {
				text = "-"
			}
			b.WriteString("  " + strings.Repeat("  ", row.Depth) + m.styles.Muted.Render(text))
			b.WriteString("\n")
		}
	}
}

func (m *Model) renderRow(row shared.Row, selected bool) string {
	cursor := " "
	if selected {
		cursor = m.styles.Cursor.Render("▸")
	}

	indent := strings.Repeat("  ", row.Depth)
	if row.IsList {
		return fmt.Sprintf("%s %-6s %s%s", cursor, row.Path, indent, m.styles.Muted.Render("-"))
	}

	mark := m.styles.Muted.Render("[ ]")
	if row.HasStatus {
		mark = EventStyle(row.Status.Label).Render(row.Status.Label.Bracketed())
	}
	text := row.Text
	if selected {
		text = m.styles.Selected.Render(text)
	}
	return fmt.Sprintf("%s %-6s %s%s %s", cursor, row.Path, indent, mark, text)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
