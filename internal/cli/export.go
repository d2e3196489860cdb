package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the record document",
		Long: `Re-encode the record and write the XML document to stdout or a file.
The output reloads to an equivalent record.

Examples:
  star export
  star export -o backup.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportRecordUseCase().Execute(cmd.Context(), usecase.ExportRecordInput{
				Path: recordPath(cmd, c),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out.Data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

// newRenderCommand creates the render command.
func newRenderCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the record as narrative text",
		Long: `Render the record back into heading-structured text that
"star import" accepts. Status history is not part of the text.

Examples:
  star render
  star render -o incident.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RenderRecordUseCase().Execute(cmd.Context(), usecase.RenderRecordInput{
				Path: recordPath(cmd, c),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(out.Text))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Exported documents are shared files
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
