package reconcile

import (
	"strings"

	"github.com/slok/sbxmon/internal/model"
)

// Commentary returns the best-effort narration for a step, given the full
// ordered segment log and the positions of the step's call and result
// segments (-1 when absent).
//
// Fallback order, first non-empty wins:
//
//  1. Commentary embedded in the call's argument bag (commentary,
//     input_commentary, or nested input.commentary).
//  2. The preview attached to the matching result.
//  3. The nearest preceding narration segment, scanning backward from the
//     result until a non-narration segment is hit. The stop condition keeps
//     narration from an unrelated earlier step from bleeding in.
//
// It is total: any input, including malformed argument bags and
// out-of-range indexes, yields a string or empty, never a panic. Empty
// means "no narration available", not an error. No truncation happens
// here, ellipsis formatting is a presentation concern.
func Commentary(segs []model.Segment, callIdx, resultIdx int) string {
	if call := segmentAt(segs, callIdx); call != nil {
		for _, path := range [][]string{
			{"commentary"},
			{"input_commentary"},
			{"input", "commentary"},
		} {
			if text := strings.TrimSpace(call.ArgString(path...)); text != "" {
				return text
			}
		}
	}

	result := segmentAt(segs, resultIdx)
	if result == nil {
		return ""
	}

	if text := strings.TrimSpace(result.Preview); text != "" {
		return text
	}
	if m := result.OutputMap(); m != nil {
		if preview, _ := m["preview"].(string); strings.TrimSpace(preview) != "" {
			return strings.TrimSpace(preview)
		}
	}

	// Backward scan, skipping the step's own call segment. The exact
	// semantics (stop at the first non-narration segment, even when
	// narration sits further back behind unrelated tool calls) are
	// load-bearing for existing UI expectations.
	for i := resultIdx - 1; i >= 0; i-- {
		if i == callIdx {
			continue
		}
		if !segs[i].IsNarration() {
			break
		}
		if text := strings.TrimSpace(segs[i].Text); text != "" {
			return text
		}
	}

	return ""
}

func segmentAt(segs []model.Segment, i int) *model.Segment {
	if i < 0 || i >= len(segs) {
		return nil
	}
	return &segs[i]
}
