// Package cli provides the command-line interface for star.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/domain"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupRecord = "record"
	groupStatus = "status"
)

// fileFlag is the persistent flag naming the record document.
const fileFlag = "file"

// launchBoardFunc is a function variable for launching the board TUI, allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// NewRootCommand creates the root command for star.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "star",
		Short: "Situation / Task / Action / Result records",
		Long: `star keeps a STAR record of a piece of work: the situation, the task,
an outline of actions and an outline of results.

Records are imported from heading-structured text, tracked with start,
done and stop events on the record or on single actions, and stored as
an XML document that can be exported and reloaded.

Run without a command to open the interactive board.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.ConfigLoader == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Broken config is reported by the commands that need it
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd, c, recordPath(cmd, c))
		},
	}

	root.PersistentFlags().StringP(fileFlag, "f", "", "Record document (default: store.file from config)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupRecord, Title: "Record Commands:"},
		&cobra.Group{ID: groupStatus, Title: "Status Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Record commands
	importCmd := newImportCommand(c)
	importCmd.GroupID = groupRecord

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupRecord

	logCmd := newLogCommand(c)
	logCmd.GroupID = groupRecord

	exportCmd := newExportCommand(c)
	exportCmd.GroupID = groupRecord

	renderCmd := newRenderCommand(c)
	renderCmd.GroupID = groupRecord

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupRecord

	// Status commands
	startCmd := newStatusCommand(c, statusCommandSpec{
		use:   "start",
		short: "Record a started event",
		event: domain.EventStarted,
	})
	startCmd.GroupID = groupStatus

	doneCmd := newStatusCommand(c, statusCommandSpec{
		use:     "done",
		aliases: []string{"complete"},
		short:   "Record a completed event",
		event:   domain.EventCompleted,
	})
	doneCmd.GroupID = groupStatus

	stopCmd := newStatusCommand(c, statusCommandSpec{
		use:   "stop",
		short: "Record a stopped event",
		event: domain.EventStopped,
	})
	stopCmd.GroupID = groupStatus

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		importCmd,
		showCmd,
		logCmd,
		exportCmd,
		renderCmd,
		boardCmd,
		startCmd,
		doneCmd,
		stopCmd,
		configCmd,
	)

	return root
}

// recordPath returns the --file flag value, falling back to the configured document.
func recordPath(cmd *cobra.Command, c *app.Container) string {
	if p, err := cmd.Flags().GetString(fileFlag); err == nil && p != "" {
		return p
	}
	if c == nil {
		return ""
	}
	return c.Config.DocPath
}

// timeFormat returns the configured display layout.
func timeFormat(c *app.Container) string {
	if c != nil && c.AppConfig != nil && c.AppConfig.Display.TimeFormat != "" {
		return c.AppConfig.Display.TimeFormat
	}
	return domain.DefaultTimeFormat
}
