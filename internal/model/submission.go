package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/anticheat"
)

// AnonymousStudent is stored when a submission omits the student name.
const AnonymousStudent = "Anonymous"

// ReviewRetention is how long submissions and corrections outlive their
// creation so teachers keep a grading window after the test itself expires.
const ReviewRetention = 7 * 24 * time.Hour

// Submission is a student's encrypted answer set for a test, together with
// the activity log it was judged by. IsSuspicious is computed exactly once,
// at submission time, and never recomputed.
type Submission struct {
	ID                      uuid.UUID           `json:"id"`
	TestID                  uuid.UUID           `json:"test_id"`
	StudentName             string              `json:"student_name"`
	EncryptedSubmissionData json.RawMessage     `json:"encrypted_submission_data"`
	TimeLogs                []anticheat.TimeLog `json:"time_logs"`
	IsSuspicious            bool                `json:"is_suspicious"`
	Score                   *float64            `json:"score,omitempty"`
	SubmittedAt             time.Time           `json:"submitted_at"`
	ExpiresAt               time.Time           `json:"expires_at"`
}

// SubmitRequest is the payload for submitting answers to a test.
type SubmitRequest struct {
	StudentName             string              `json:"student_name" binding:"omitempty,max=120"`
	EncryptedSubmissionData json.RawMessage     `json:"encrypted_submission_data" binding:"required"`
	TimeLogs                []anticheat.TimeLog `json:"time_logs" binding:"omitempty"`
}

// ScoreRequest is the payload for a teacher setting a submission score.
type ScoreRequest struct {
	Score float64 `json:"score" binding:"min=0,max=100"`
}
