package model

// SessionState represents the top-level state of the monitored session.
type SessionState string

const (
	// SessionStateInit indicates the session is being prepared.
	SessionStateInit SessionState = "init"
	// SessionStateIdle indicates the session is up and waiting for work.
	SessionStateIdle SessionState = "idle"
	// SessionStateBusy indicates the session is processing a task.
	SessionStateBusy SessionState = "busy"
	// SessionStateClosed indicates the session has been suspended.
	SessionStateClosed SessionState = "closed"
	// SessionStateError indicates the session is unavailable.
	SessionStateError SessionState = "error"
)

// IsTerminal reports whether polling should stop for this session state.
func (s SessionState) IsTerminal() bool {
	return s == SessionStateClosed || s == SessionStateError
}

// Session represents the top-level session/sandbox state.
type Session struct {
	Name          string       `json:"name"`
	State         SessionState `json:"state"`
	Description   string       `json:"description,omitempty"`
	ContextLength int64        `json:"context_length"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

// Stats is the auxiliary global stats payload.
type Stats struct {
	SandboxesTotal      int64  `json:"sandboxes_total"`
	SandboxesActive     int64  `json:"sandboxes_active"`
	SandboxesTerminated int64  `json:"sandboxes_terminated"`
	CapturedAt          string `json:"captured_at"`
}
