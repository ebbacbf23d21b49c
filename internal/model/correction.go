package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Correction is a teacher-authored amendment for a single submission. At most
// one correction exists per submission, and only for tests created with
// allow_corrections.
type Correction struct {
	ID                      uuid.UUID       `json:"id"`
	SubmissionID            uuid.UUID       `json:"submission_id"`
	EncryptedCorrectionData json.RawMessage `json:"encrypted_correction_data"`
	TeacherNotes            *string         `json:"teacher_notes,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	ExpiresAt               time.Time       `json:"expires_at"`
}

// CreateCorrectionRequest is the payload for attaching a correction to a
// submission.
type CreateCorrectionRequest struct {
	EncryptedCorrectionData json.RawMessage `json:"encrypted_correction_data" binding:"required"`
	TeacherNotes            *string         `json:"teacher_notes" binding:"omitempty,max=2000"`
}
