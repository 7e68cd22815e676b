package model

import (
	"encoding/json"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// TaskStatusQueued indicates the task is waiting to be executed.
	TaskStatusQueued TaskStatus = "queued"
	// TaskStatusProcessing indicates the task is being executed.
	TaskStatusProcessing TaskStatus = "processing"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled indicates the task was cancelled.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// IsTerminal reports whether the task will not change state anymore.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed || s == TaskStatusCancelled
}

// ContentItem is a single heterogeneous content block (task input or output).
// It is kept as a loose bag because the API mixes shapes freely.
type ContentItem map[string]interface{}

// ItemType returns the content item type, empty if absent or malformed.
func (c ContentItem) ItemType() string {
	s, _ := c["type"].(string)
	return s
}

// Text returns the content item text, empty if absent or malformed.
func (c ContentItem) Text() string {
	s, _ := c["text"].(string)
	return s
}

// Output is the task's final output payload.
type Output struct {
	Text    string        `json:"text"`
	Content []ContentItem `json:"content"`
}

// TaskSummary represents a task as returned by the list endpoint.
// Timestamps are kept as the RFC3339 strings the API serves; UpdatedAt is
// the freshness marker compared as an opaque value.
type TaskSummary struct {
	ID             string        `json:"id"`
	Status         TaskStatus    `json:"status"`
	InputContent   []ContentItem `json:"input_content"`
	ContextLength  int64         `json:"context_length"`
	TimeoutSeconds *int          `json:"timeout_seconds,omitempty"`
	TimeoutAt      string        `json:"timeout_at,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

// InputText returns the first text item of the task's input, empty when the
// input carries no text.
func (t TaskSummary) InputText() string {
	for _, item := range t.InputContent {
		if s := item.Text(); s != "" {
			return s
		}
	}
	return ""
}

// Task represents a full task detail, including its execution trace.
// Tasks are owned and mutated only by the remote system; the client reads
// them and submits new tasks or cancellation requests.
type Task struct {
	ID             string        `json:"id"`
	Status         TaskStatus    `json:"status"`
	InputContent   []ContentItem `json:"input_content"`
	OutputContent  []ContentItem `json:"output_content"`
	Segments       []Segment     `json:"segments"`
	Output         Output        `json:"output"`
	ContextLength  int64         `json:"context_length"`
	TimeoutSeconds *int          `json:"timeout_seconds,omitempty"`
	TimeoutAt      string        `json:"timeout_at,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

// Summary returns the task's summary view.
func (t Task) Summary() TaskSummary {
	return TaskSummary{
		ID:             t.ID,
		Status:         t.Status,
		InputContent:   t.InputContent,
		ContextLength:  t.ContextLength,
		TimeoutSeconds: t.TimeoutSeconds,
		TimeoutAt:      t.TimeoutAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// CreateTaskRequest contains the parameters to submit a new task.
type CreateTaskRequest struct {
	Input    []ContentItem `json:"input"`
	TaskType string        `json:"task_type,omitempty"`

	// IdempotencyKey is sent as a header, not in the body, so retried
	// submissions don't create duplicate tasks.
	IdempotencyKey string `json:"-"`
}

// Validate validates the create task request.
func (r CreateTaskRequest) Validate() error {
	if len(r.Input) == 0 {
		return ErrNotValid
	}
	return nil
}

// Segment type discriminators as served by the API.
const (
	SegmentTypeToolCall   = "tool_call"
	SegmentTypeToolResult = "tool_result"
	SegmentTypeAnalysis   = "analysis"
	SegmentTypeCommentary = "commentary"
	SegmentTypeFinal      = "final"
)

// Segment is one immutable, ordered entry of a task's execution trace.
// Entries are heterogeneously shaped; every accessor degrades to a zero
// value on malformed input so one bad segment never breaks reconciliation.
type Segment struct {
	Type    string
	Tool    string
	Channel string
	Text    string
	Preview string
	Args    map[string]interface{}
	Output  interface{}
}

// UnmarshalJSON decodes a segment defensively: unexpected shapes produce an
// empty segment instead of failing the whole task decode.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = Segment{}
		return nil
	}

	s.Type, _ = raw["type"].(string)
	s.Tool, _ = raw["tool"].(string)
	s.Channel, _ = raw["channel"].(string)
	s.Text, _ = raw["text"].(string)
	s.Preview, _ = raw["preview"].(string)
	s.Output = raw["output"]

	// The API serves the argument bag as "args" or "arguments" depending on
	// the producer.
	args, ok := raw["args"].(map[string]interface{})
	if !ok {
		args, _ = raw["arguments"].(map[string]interface{})
	}
	s.Args = args

	return nil
}

// MarshalJSON keeps segments round-trippable for the JSON printer.
func (s Segment) MarshalJSON() ([]byte, error) {
	raw := map[string]interface{}{}
	if s.Type != "" {
		raw["type"] = s.Type
	}
	if s.Tool != "" {
		raw["tool"] = s.Tool
	}
	if s.Channel != "" {
		raw["channel"] = s.Channel
	}
	if s.Text != "" {
		raw["text"] = s.Text
	}
	if s.Preview != "" {
		raw["preview"] = s.Preview
	}
	if s.Args != nil {
		raw["args"] = s.Args
	}
	if s.Output != nil {
		raw["output"] = s.Output
	}
	return json.Marshal(raw)
}

// IsNarration reports whether the segment is free-text narration
// (analysis or commentary typed).
func (s Segment) IsNarration() bool {
	return s.Type == SegmentTypeAnalysis || s.Type == SegmentTypeCommentary
}

// ArgString walks the argument bag through the given nested keys and returns
// the string value found, or empty if any hop is absent or not a map/string.
func (s Segment) ArgString(path ...string) string {
	var cur interface{} = s.Args
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = m[key]
	}
	str, _ := cur.(string)
	return str
}

// OutputMap returns the segment output as a map, nil if it isn't one.
func (s Segment) OutputMap() map[string]interface{} {
	m, _ := s.Output.(map[string]interface{})
	return m
}

// OutputText returns a best-effort textual form of the segment output:
// a plain string output, or the "text" field of an object output.
func (s Segment) OutputText() string {
	switch v := s.Output.(type) {
	case string:
		return v
	case map[string]interface{}:
		str, _ := v["text"].(string)
		return str
	}
	return ""
}
