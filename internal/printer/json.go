package printer

import (
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/slok/sbxmon/internal/model"
)

// JSONPrinter prints task and file information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskListItem represents a task in the list output (subset of fields).
type taskListItem struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Input     string `json:"input"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// taskStatusOutput represents the reconciled task status output.
type taskStatusOutput struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Steps     []stepOutput `json:"steps"`
	Output    string       `json:"output,omitempty"`
}

// stepOutput represents a reconciled step of the task trace.
type stepOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Tool       string `json:"tool,omitempty"`
	Commentary string `json:"commentary,omitempty"`
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
}

// filePreviewOutput represents a file preview; binary data is base64.
type filePreviewOutput struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Mode        string `json:"mode"`
	Text        string `json:"text,omitempty"`
	Data        string `json:"data,omitempty"`
}

// sessionInfoOutput represents the session state and stats output.
type sessionInfoOutput struct {
	State string       `json:"state"`
	Stats *model.Stats `json:"stats,omitempty"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintTaskList prints task summaries in JSON format with a subset of fields.
func (j *JSONPrinter) PrintTaskList(tasks []model.TaskSummary) error {
	items := make([]taskListItem, len(tasks))
	for i, t := range tasks {
		items[i] = taskListItem{
			ID:        t.ID,
			Status:    string(t.Status),
			Input:     t.InputText(),
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
	}

	return j.encode(items)
}

// PrintTaskStatus prints the reconciled detail of a task in JSON format.
func (j *JSONPrinter) PrintTaskStatus(task model.Task, steps []model.Step, output []model.ContentItem) error {
	out := taskStatusOutput{
		ID:        task.ID,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
		Steps:     make([]stepOutput, 0, len(steps)),
	}

	for _, s := range steps {
		out.Steps = append(out.Steps, stepOutput{
			ID:         s.ID,
			Title:      s.Title,
			Tool:       s.ToolName,
			Commentary: s.Commentary,
			Input:      s.Input,
			Output:     s.Output,
		})
	}

	for _, item := range output {
		if text := item.Text(); text != "" {
			if out.Output != "" {
				out.Output += "\n"
			}
			out.Output += text
		}
	}
	if out.Output == "" {
		out.Output = task.Output.Text
	}

	return j.encode(out)
}

// PrintFileList prints a directory listing in JSON format.
func (j *JSONPrinter) PrintFileList(listing model.FileListing) error {
	return j.encode(listing)
}

// PrintFilePreview prints a file preview in JSON format. Text previews are
// embedded verbatim, everything else as base64.
func (j *JSONPrinter) PrintFilePreview(preview model.FilePreview) error {
	out := filePreviewOutput{
		Path:        preview.Path,
		ContentType: preview.ContentType,
		Mode:        string(preview.Mode),
	}

	if preview.Mode == model.PreviewModeText {
		out.Text = string(preview.Data)
	} else {
		out.Data = base64.StdEncoding.EncodeToString(preview.Data)
	}

	return j.encode(out)
}

// PrintSessionInfo prints the session state and stats in JSON format.
func (j *JSONPrinter) PrintSessionInfo(state model.SessionState, stats *model.Stats) error {
	return j.encode(sessionInfoOutput{State: string(state), Stats: stats})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v interface{}) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
