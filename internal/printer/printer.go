package printer

import "github.com/slok/sbxmon/internal/model"

// Printer knows how to print task and file information in different formats.
type Printer interface {
	PrintTaskList(tasks []model.TaskSummary) error
	PrintTaskStatus(task model.Task, steps []model.Step, output []model.ContentItem) error
	PrintFileList(listing model.FileListing) error
	PrintFilePreview(preview model.FilePreview) error
	PrintSessionInfo(state model.SessionState, stats *model.Stats) error
	PrintMessage(msg string) error
}
