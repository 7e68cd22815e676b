package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/sbxmon/internal/model"
)

// TablePrinter prints task and file information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintTaskList prints task summaries in a table format.
func (t *TablePrinter) PrintTaskList(tasks []model.TaskSummary) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header
	fmt.Fprintln(tw, "ID\tSTATUS\tINPUT\tUPDATED")

	// Print rows. Truncation happens here only: the underlying summaries
	// keep the full input text.
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			Ellipsis(task.InputText(), 48),
			TimeAgo(task.UpdatedAt),
		)
	}

	return nil
}

// PrintTaskStatus prints the reconciled detail of a task.
func (t *TablePrinter) PrintTaskStatus(task model.Task, steps []model.Step, output []model.ContentItem) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "Status:     %s\n", task.Status)
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(task.CreatedAt))
	fmt.Fprintf(t.writer, "Updated:    %s\n", FormatTimestamp(task.UpdatedAt))

	if len(steps) > 0 {
		fmt.Fprintf(t.writer, "\nSteps:\n")
		for i, step := range steps {
			fmt.Fprintf(t.writer, "  %d. %s\n", i+1, stepHeadline(step))
			if step.Commentary != "" {
				fmt.Fprintf(t.writer, "     %s\n", Ellipsis(step.Commentary, 100))
			}
			if step.Output != "" {
				fmt.Fprintf(t.writer, "     -> %s\n", Ellipsis(firstLine(step.Output), 100))
			}
		}
	}

	texts := make([]string, 0, len(output))
	for _, item := range output {
		if text := item.Text(); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 && task.Output.Text != "" {
		texts = append(texts, task.Output.Text)
	}
	if len(texts) > 0 {
		fmt.Fprintf(t.writer, "\nOutput:\n%s\n", strings.Join(texts, "\n"))
	}

	return nil
}

func stepHeadline(step model.Step) string {
	if step.Title != "" {
		return step.Title
	}
	if step.ToolName != "" {
		return step.ToolName
	}
	return "(step)"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// PrintFileList prints one page of a directory listing in a table format.
func (t *TablePrinter) PrintFileList(listing model.FileListing) error {
	if len(listing.Entries) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header.
		fmt.Fprintln(tw, "NAME\tKIND\tSIZE\tMODIFIED")

		// Print rows.
		for _, e := range listing.Entries {
			size := FormatBytes(e.Size)
			if e.Kind == model.FileKindDir {
				size = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Kind, size, TimeAgo(e.MTime))
		}
		tw.Flush()
	}

	if listing.NextOffset != nil {
		shown := listing.Offset + int64(len(listing.Entries))
		fmt.Fprintf(t.writer, "\nShowing %d of %d entries, continue with --offset %d\n",
			shown, listing.Total, *listing.NextOffset)
	}

	return nil
}

// PrintFilePreview prints a file preview. Text content is written verbatim;
// image and binary content only as a short description, a terminal is no
// place for raw bytes.
func (t *TablePrinter) PrintFilePreview(preview model.FilePreview) error {
	if preview.Mode == model.PreviewModeText {
		_, err := t.writer.Write(preview.Data)
		return err
	}

	fmt.Fprintf(t.writer, "%s: %s content, %s\n",
		preview.Path, preview.Mode, FormatBytes(int64(len(preview.Data))))
	return nil
}

// PrintSessionInfo prints the session state and the auxiliary stats.
func (t *TablePrinter) PrintSessionInfo(state model.SessionState, stats *model.Stats) error {
	fmt.Fprintf(t.writer, "Session:    %s\n", state)
	if stats != nil {
		fmt.Fprintf(t.writer, "Sandboxes:  %d total, %d active, %d terminated\n",
			stats.SandboxesTotal, stats.SandboxesActive, stats.SandboxesTerminated)
	}
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
