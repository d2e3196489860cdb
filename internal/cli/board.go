package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/tui"
)

// newBoardCommand creates the board command for launching the interactive TUI.
// Running star without a command opens the same board.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Launch interactive board",
		Long: `Launch the interactive board for the record document.

Keys:
  j/k    move between action items
  s d x  start, complete or stop the selected action
  S D X  start, complete or stop the record
  r      reload the document
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd, c, recordPath(cmd, c))
		},
	}
}

// launchBoard runs the board until the user quits.
func launchBoard(cmd *cobra.Command, c *app.Container, path string) error {
	model := tui.New(c.ShowRecordUseCase(), c.UpdateStatusUseCase(), path, timeFormat(c))
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}
