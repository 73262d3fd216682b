package model

import "time"

// Message roles in a conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry. Transcripts are append-only within a
// session and cleared wholesale on reset.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is one tool invocation requested by the reasoning engine.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolEvent records one dispatcher invocation so a caller can trace or format
// it without coupling display to the dispatch logic.
type ToolEvent struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Outcome   string         `json:"outcome"`
	Took      time.Duration  `json:"took"`
	Err       string         `json:"error,omitempty"`
}

// ToolEvent outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeClarification = "clarification"
	OutcomeRejected      = "rejected"
	OutcomeUnknownTool   = "unknown_tool"
	OutcomeError         = "error"
)
