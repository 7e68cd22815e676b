package model

// Step is a derived grouping of one tool call with its matching result and
// any attached narration. Steps are never persisted: they are recomputed
// from the segment log whenever it changes.
type Step struct {
	ID         string
	Call       *Segment
	Result     *Segment
	Extras     []Segment
	Title      string
	Commentary string
	ToolName   string
	Input      string
	Output     string
}

// IsEmpty reports whether the step carries nothing worth showing: no call,
// no result, no commentary, no input/output, and no extras besides final
// markers. An orphan result counts even when its output renders to nothing,
// so the step stays visible as evidence the tool ran.
func (s Step) IsEmpty() bool {
	if s.Call != nil || s.Result != nil || s.Commentary != "" || s.Input != "" || s.Output != "" {
		return false
	}
	for _, e := range s.Extras {
		if e.Type != SegmentTypeFinal {
			return false
		}
	}
	return true
}
