package reconcile

import (
	"strings"

	"github.com/slok/sbxmon/internal/model"
)

// OutputContent returns the task's final answer content items. Precedence:
// the last output-family tool_result's output.items, then the last
// output-family tool_call's argument content, then the task's output
// payload. This mirrors how the server computes the output view, so the
// client shows the same answer the API would.
func OutputContent(t model.Task) []model.ContentItem {
	for i := len(t.Segments) - 1; i >= 0; i-- {
		seg := t.Segments[i]
		if seg.Type != model.SegmentTypeToolResult || !isOutputTool(seg.Tool) {
			continue
		}
		if m := seg.OutputMap(); m != nil {
			if items := contentItems(m["items"]); items != nil {
				return items
			}
		}
	}

	for i := len(t.Segments) - 1; i >= 0; i-- {
		seg := t.Segments[i]
		if seg.Type != model.SegmentTypeToolCall || !isOutputTool(seg.Tool) {
			continue
		}
		if items := contentItems(seg.Args["content"]); items != nil {
			return items
		}
	}

	if len(t.OutputContent) > 0 {
		return t.OutputContent
	}
	return t.Output.Content
}

// OutputText returns the task's final answer as plain text: the
// concatenated text of its content items, or the raw output text.
func OutputText(t model.Task) string {
	items := OutputContent(t)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if text := it.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}
	return t.Output.Text
}

// contentItems converts a decoded JSON array into content items, nil if the
// value isn't an array.
func contentItems(v interface{}) []model.ContentItem {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}

	items := make([]model.ContentItem, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]interface{}); ok {
			items = append(items, model.ContentItem(m))
		}
	}
	return items
}
