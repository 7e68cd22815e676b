package printer_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/printer"
)

func TestTablePrinterPrintTaskList(t *testing.T) {
	assert := assert.New(t)

	tasks := []model.TaskSummary{
		{
			ID:           "t1",
			Status:       model.TaskStatusProcessing,
			InputContent: []model.ContentItem{{"type": "text", "text": "run the tests"}},
			UpdatedAt:    "2025-05-01T12:00:00Z",
		},
	}

	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintTaskList(tasks)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(out, "ID")
	assert.Contains(out, "STATUS")
	assert.Contains(out, "t1")
	assert.Contains(out, "processing")
	assert.Contains(out, "run the tests")
}

func TestTablePrinterPrintTaskListEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintTaskList(nil)

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestTablePrinterPrintTaskStatus(t *testing.T) {
	assert := assert.New(t)

	task := model.Task{
		ID:        "t1",
		Status:    model.TaskStatusCompleted,
		CreatedAt: "2025-05-01T12:00:00Z",
		UpdatedAt: "2025-05-01T12:05:00Z",
	}
	steps := []model.Step{
		{ID: "step-0", ToolName: "shell", Commentary: "Running the tests", Output: "ok\nall green"},
	}
	output := []model.ContentItem{{"type": "text", "text": "All tests passed."}}

	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintTaskStatus(task, steps, output)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(out, "t1")
	assert.Contains(out, "completed")
	assert.Contains(out, "shell")
	assert.Contains(out, "Running the tests")
	// Step output is collapsed to its first line.
	assert.Contains(out, "-> ok")
	assert.NotContains(out, "all green")
	assert.Contains(out, "All tests passed.")
}

func TestTablePrinterPrintFileList(t *testing.T) {
	assert := assert.New(t)

	next := int64(2)
	listing := model.FileListing{
		Entries: []model.FileEntry{
			{Name: "main.go", Kind: model.FileKindFile, Size: 2048, MTime: "2025-05-01T12:00:00Z"},
			{Name: "internal", Kind: model.FileKindDir, MTime: "2025-05-01T12:00:00Z"},
		},
		Total:      10,
		Offset:     0,
		Limit:      2,
		NextOffset: &next,
	}

	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintFileList(listing)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(out, "main.go")
	assert.Contains(out, "2.0 KB")
	assert.Contains(out, "internal")
	assert.Contains(out, "--offset 2")
}

func TestTablePrinterPrintFilePreview(t *testing.T) {
	tests := map[string]struct {
		preview model.FilePreview
		exp     string
	}{
		"text preview is written verbatim": {
			preview: model.FilePreview{
				Path: "/main.go", ContentType: "text/x-go",
				Mode: model.PreviewModeText, Data: []byte("package main\n"),
			},
			exp: "package main\n",
		},
		"binary preview is described, not dumped": {
			preview: model.FilePreview{
				Path: "/blob.bin", ContentType: "application/octet-stream",
				Mode: model.PreviewModeBinary, Data: make([]byte, 2048),
			},
			exp: "/blob.bin: binary content, 2.0 KB\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := printer.NewTablePrinter(&buf).PrintFilePreview(test.preview)

			require.NoError(t, err)
			assert.Equal(t, test.exp, buf.String())
		})
	}
}

func TestJSONPrinterPrintTaskList(t *testing.T) {
	assert := assert.New(t)

	tasks := []model.TaskSummary{
		{
			ID:           "t1",
			Status:       model.TaskStatusQueued,
			InputContent: []model.ContentItem{{"type": "text", "text": "hello"}},
			CreatedAt:    "2025-05-01T12:00:00Z",
			UpdatedAt:    "2025-05-01T12:00:00Z",
		},
	}

	var buf bytes.Buffer
	err := printer.NewJSONPrinter(&buf).PrintTaskList(tasks)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal("t1", decoded[0]["id"])
	assert.Equal("queued", decoded[0]["status"])
	assert.Equal("hello", decoded[0]["input"])
}

func TestJSONPrinterPrintTaskStatus(t *testing.T) {
	assert := assert.New(t)

	task := model.Task{ID: "t1", Status: model.TaskStatusCompleted, Output: model.Output{Text: "done"}}
	steps := []model.Step{{ID: "step-0", ToolName: "shell", Output: "ok"}}

	var buf bytes.Buffer
	err := printer.NewJSONPrinter(&buf).PrintTaskStatus(task, steps, nil)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal("t1", decoded["id"])
	assert.Equal("done", decoded["output"])
	stepsOut, ok := decoded["steps"].([]interface{})
	require.True(t, ok)
	require.Len(t, stepsOut, 1)
}

func TestJSONPrinterPrintFilePreviewBinary(t *testing.T) {
	assert := assert.New(t)

	preview := model.FilePreview{
		Path: "/blob.bin", ContentType: "application/octet-stream",
		Mode: model.PreviewModeBinary, Data: []byte{0x00, 0x01},
	}

	var buf bytes.Buffer
	err := printer.NewJSONPrinter(&buf).PrintFilePreview(preview)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal("AAE=", decoded["data"])
	assert.NotContains(decoded, "text")
}

func TestJSONPrinterPrintSessionInfo(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := printer.NewJSONPrinter(&buf).PrintSessionInfo(model.SessionStateBusy, &model.Stats{SandboxesTotal: 4})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal("busy", decoded["state"])
	stats, ok := decoded["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(float64(4), stats["sandboxes_total"])
}
