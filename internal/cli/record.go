package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase"
	"github.com/runoshun/star/internal/usecase/shared"
)

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Create a record from narrative text",
		Long: `Create a record from heading-structured text.

The source is split at top-level "#" headings. Heading labels are
normalized (lowercased, spaces and hyphens become underscores) and
mapped onto the record: situation, task, action and result. Action and
result bodies are read as indented bullet outlines.

Sources:
  path/to/file.md        a file (file:// prefix accepted)
  git:<rev>:<path>       a file at a revision of the configured repository
  -                      standard input
  text with newlines     the text itself

Examples:
  # Import a narrative file into the default document
  star import notes/incident.md

  # Import from a committed revision
  star import git:HEAD~1:docs/incident.md

  # Replace an existing document
  star import notes/incident.md --force -f ops.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := recordPath(cmd, c)
			out, err := c.ImportRecordUseCase().Execute(cmd.Context(), usecase.ImportRecordInput{
				Source: args[0],
				Path:   path,
				Force:  force,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported record %s from %s source into %s (%d actions, %d results)\n",
				out.Record.ID(), out.Source.Kind, path,
				len(out.Record.Actions().Leaves()), len(out.Record.Results().Leaves()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing record document")

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the record",
		Long: `Display the record with its current status, situation, task and
both outlines. Action items are numbered with dotted paths usable as
references for start, done and stop.

Examples:
  star show
  star show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowRecordUseCase().Execute(cmd.Context(), usecase.ShowRecordInput{
				Path: recordPath(cmd, c),
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printRecordJSON(cmd.OutOrStdout(), out)
			}
			printRecord(cmd.OutOrStdout(), out, timeFormat(c))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	return cmd
}

// printRecord writes the human-readable record view.
func printRecord(w io.Writer, out *usecase.ShowRecordOutput, layout string) {
	rec := out.Record
	_, _ = fmt.Fprintf(w, "Record: %s\n", rec.ID())
	if out.HasStatus {
		line := fmt.Sprintf("%s at %s", out.Status.Label.Display(), out.Status.Time.Format(layout))
		if out.Status.Title != "" {
			line += fmt.Sprintf(" (%s)", out.Status.Title)
		}
		_, _ = fmt.Fprintf(w, "Status: %s\n", line)
	} else {
		_, _ = fmt.Fprintln(w, "Status: not started")
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Situation:")
	printIndented(w, rec.Situation)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Task:")
	printIndented(w, rec.Task)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Actions:")
	printRows(w, out.Actions, layout, true)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Results:")
	printRows(w, out.Results, layout, false)
}

func printIndented(w io.Writer, text string) {
	if text == "" {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
}

// printRows writes a flattened tree. Action rows carry their status.
func printRows(w io.Writer, rows []shared.Row, layout string, withStatus bool) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		text := r.Text
		if r.IsList {
			text = "-"
		}
		if !withStatus {
			_, _ = fmt.Fprintf(tw, "  %s\t%s%s\n", r.Path, indent, text)
			continue
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s%s\n", r.Path, rowStatus(r, layout), indent, text)
	}
	_ = tw.Flush()
}

func rowStatus(r shared.Row, layout string) string {
	switch {
	case r.IsList:
		return ""
	case !r.HasStatus:
		return "[ ]"
	default:
		return fmt.Sprintf("[%s %s]", r.Status.Label, r.Status.Time.Format(layout))
	}
}

// printRecordJSON writes the record view as JSON.
func printRecordJSON(w io.Writer, out *usecase.ShowRecordOutput) error {
	type jsonRow struct {
		Time   *time.Time `json:"time,omitempty"`
		Path   string     `json:"path"`
		ID     string     `json:"id"`
		Text   string     `json:"text,omitempty"`
		Status string     `json:"status,omitempty"`
		Depth  int        `json:"depth"`
		IsList bool       `json:"is_list"`
	}
	type jsonStatus struct {
		Time  time.Time `json:"time"`
		Label string    `json:"label"`
		Title string    `json:"title,omitempty"`
	}
	type jsonRecord struct {
		Status    *jsonStatus `json:"status"`
		ID        string      `json:"id"`
		Situation string      `json:"situation"`
		Task      string      `json:"task"`
		Actions   []jsonRow   `json:"actions"`
		Results   []jsonRow   `json:"results"`
	}

	convert := func(rows []shared.Row) []jsonRow {
		out := make([]jsonRow, 0, len(rows))
		for _, r := range rows {
			jr := jsonRow{Path: r.Path, ID: r.ID, Text: r.Text, Depth: r.Depth, IsList: r.IsList}
			if r.HasStatus {
				t := r.Status.Time
				jr.Time = &t
				jr.Status = string(r.Status.Label)
			}
			out = append(out, jr)
		}
		return out
	}

	jr := jsonRecord{
		ID:        out.Record.ID(),
		Situation: out.Record.Situation,
		Task:      out.Record.Task,
		Actions:   convert(out.Actions),
		Results:   convert(out.Results),
	}
	if out.HasStatus {
		jr.Status = &jsonStatus{Time: out.Status.Time, Label: string(out.Status.Label), Title: out.Status.Title}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jr)
}

// newLogCommand creates the log command.
func newLogCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Display the event log",
		Long: `Display the record's own events and every action event, newest first.

Examples:
  star log
  star log -n 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowLogUseCase().Execute(cmd.Context(), usecase.ShowLogInput{
				Path:  recordPath(cmd, c),
				Limit: limit,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(w, "No events.")
				return nil
			}
			printLog(w, out.Entries, timeFormat(c))
			if len(out.Entries) < out.Total {
				_, _ = fmt.Fprintf(w, "(%d of %d events)\n", len(out.Entries), out.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 0, "Show only the newest n events")

	return cmd
}

func printLog(w io.Writer, entries []domain.LogRecord, layout string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tEVENT\tTITLE")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(record)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Time.Format(layout), e.Label.Bracketed(), title)
	}
	_ = tw.Flush()
}
