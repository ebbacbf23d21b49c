package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventSubmission Event = "submission"
	EventPong       Event = "pong"
)

// SubmissionNotice is pushed to a monitoring teacher when a student submits.
type SubmissionNotice struct {
	Event        Event     `json:"event"`
	SubmissionID string    `json:"submission_id"`
	TestID       string    `json:"test_id"`
	StudentName  string    `json:"student_name"`
	IsSuspicious bool      `json:"is_suspicious"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
