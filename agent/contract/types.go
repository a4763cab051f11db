package contract

import (
	"time"

	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
)

// ToolRequest is one tool invocation issued by the call session.
type ToolRequest struct {
	CallID string         `json:"call_id"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
}

// ToolResult is the string-serialized answer handed back to the session.
// Error is set instead of Result when the request was rejected.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type LaunchRequest struct {
	Details statex.FixedDetails `json:"details"`
}

type LaunchResponse struct {
	CallID      string `json:"call_id"`
	JoinURL     string `json:"join_url"`
	Instruction string `json:"instruction"`
}

// CallView is the inspectable state of a live call.
type CallView struct {
	CallID      string              `json:"call_id"`
	Details     statex.FixedDetails `json:"details"`
	Objectives  statex.Snapshot     `json:"objectives"`
	Stage       string              `json:"stage,omitempty"`
	Instruction string              `json:"instruction,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
