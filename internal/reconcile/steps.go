// Package reconcile turns a task's flat, heterogeneously shaped segment log
// into the logical steps shown on the execution timeline, and extracts the
// human narration attached to them. Everything in this package is pure and
// synchronous: it operates on already-fetched data and never blocks.
package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slok/sbxmon/internal/model"
)

// Steps reconciles an ordered segment log into a list of logical steps.
//
// A tool_call opens a new step (closing the previous open one). The
// immediately following segment closes the step's result if it is a
// tool_result naming the same tool. Anything else is appended to the open
// step's extras; with no step open it starts a standalone step. Steps that
// are pure noise (only final markers, no call, no narration, no payload) and
// steps of the output-emitting tool family are dropped: the latter are the
// task's final answer, served through OutputContent, not timeline actions.
//
// Reconciling the same log twice yields structurally identical results.
func Steps(segs []model.Segment) []model.Step {
	b := stepsBuilder{segs: segs}

	for i := range segs {
		seg := segs[i]

		switch {
		case seg.Type == model.SegmentTypeToolCall:
			b.closeOpen()
			b.openCall(i)

		case seg.Type == model.SegmentTypeToolResult && b.matchesOpenCall(i):
			b.closeResult(i)

		default:
			// Unmatched tool_results fall through here too: with a step open
			// they become extras, alone they start an orphan step. Both are
			// kept visible, they flag an in-progress action or a log
			// inconsistency worth surfacing.
			b.addExtra(i)
		}
	}
	b.closeOpen()

	return b.steps
}

type stepsBuilder struct {
	segs  []model.Segment
	steps []model.Step

	open      *model.Step
	openStart int // Index of the step's first segment, used as its identity.
	callIdx   int
	resultIdx int
}

func (b *stepsBuilder) openCall(i int) {
	seg := b.segs[i]
	b.open = &model.Step{
		Call:     &seg,
		ToolName: seg.Tool,
	}
	b.openStart = i
	b.callIdx = i
	b.resultIdx = -1
}

// matchesOpenCall reports whether the segment at i is the result closing the
// open step: it must immediately follow the call and name the same tool.
func (b *stepsBuilder) matchesOpenCall(i int) bool {
	return b.open != nil &&
		b.open.Call != nil &&
		b.open.Result == nil &&
		i == b.callIdx+1 &&
		b.segs[i].Tool == b.open.Call.Tool
}

func (b *stepsBuilder) closeResult(i int) {
	seg := b.segs[i]
	b.open.Result = &seg
	b.resultIdx = i
}

func (b *stepsBuilder) addExtra(i int) {
	seg := b.segs[i]

	if b.open == nil {
		b.openStart = i
		b.callIdx = -1
		b.resultIdx = -1
		if seg.Type == model.SegmentTypeToolResult {
			// Orphan result: a result with no open step.
			b.open = &model.Step{Result: &seg, ToolName: seg.Tool}
			b.resultIdx = i
			return
		}
		b.open = &model.Step{Extras: []model.Segment{seg}}
		return
	}

	b.open.Extras = append(b.open.Extras, seg)
}

func (b *stepsBuilder) closeOpen() {
	if b.open == nil {
		return
	}
	step := *b.open
	b.open = nil

	// Output-emitting tools carry the task's final answer, not a timeline
	// action.
	if isOutputTool(step.ToolName) {
		return
	}

	step.ID = fmt.Sprintf("step-%d", b.openStart)
	step.Commentary = Commentary(b.segs, b.callIdx, b.resultIdx)
	step.Input = renderArgs(step.Call)
	step.Output = renderResult(step.Result)
	if step.Call == nil {
		step.Title = titleFor(step)
	}

	if step.IsEmpty() {
		return
	}

	b.steps = append(b.steps, step)
}

// isOutputTool reports whether the tool belongs to the reserved
// output-emitting family (output, output_markdown, output_json, ...).
func isOutputTool(name string) bool {
	return name == "output" || strings.HasPrefix(name, "output_")
}

// titleFor derives a human label for a step with no call, from its first
// extra's type (or its orphan result).
func titleFor(step model.Step) string {
	segType := ""
	switch {
	case len(step.Extras) > 0:
		segType = step.Extras[0].Type
	case step.Result != nil:
		segType = model.SegmentTypeToolResult
	}
	if segType == "" {
		return "Log"
	}

	label := strings.ReplaceAll(segType, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// renderArgs renders a call's argument bag as compact JSON for display.
func renderArgs(call *model.Segment) string {
	if call == nil || len(call.Args) == 0 {
		return ""
	}
	data, err := json.Marshal(call.Args)
	if err != nil {
		return ""
	}
	return string(data)
}

// renderResult renders a result's output, preferring its textual form.
func renderResult(result *model.Segment) string {
	if result == nil {
		return ""
	}
	if text := result.OutputText(); text != "" {
		return text
	}
	if result.Output == nil {
		return ""
	}
	data, err := json.Marshal(result.Output)
	if err != nil {
		return ""
	}
	return string(data)
}
