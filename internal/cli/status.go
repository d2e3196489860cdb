package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase"
)

// statusCommandSpec describes one of the start, done and stop commands.
type statusCommandSpec struct {
	use     string
	short   string
	event   domain.EventLabel
	aliases []string
}

// newStatusCommand creates a command that records spec.event.
func newStatusCommand(c *app.Container, spec statusCommandSpec) *cobra.Command {
	return &cobra.Command{
		Use:     spec.use + " [ref]",
		Aliases: spec.aliases,
		Short:   spec.short,
		Long: fmt.Sprintf(`%s on the record or on one action item.

Without a reference the event is recorded on the record itself.
A reference is a dotted action path as printed by "star show" (for
example 2.1) or an action item id. Events on action items also become
the record's current status.

Result items do not take status events.

Examples:
  star %s
  star %s 2.1`, spec.short, spec.use, spec.use),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}

			out, err := c.UpdateStatusUseCase().Execute(cmd.Context(), usecase.UpdateStatusInput{
				Path:  recordPath(cmd, c),
				Ref:   ref,
				Event: spec.event,
			})
			if err != nil {
				return err
			}

			at := out.Entry.Time.Format(timeFormat(c))
			if out.Title == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s record %s at %s\n", out.Entry.Label.Display(), out.Record.ID(), at)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q at %s\n", out.Entry.Label.Display(), out.Title, at)
			return nil
		},
	}
}
