package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// MinDurationMinutes and MaxDurationMinutes bound the nominal exam length.
	MinDurationMinutes = 1
	MaxDurationMinutes = 240

	// GraceBuffer extends a test's life beyond its nominal duration so
	// last-moment submissions and clock skew don't cut students off. Fixed,
	// not configurable.
	GraceBuffer = 10 * time.Minute
)

// Test is an encrypted exam bound to a 6-digit access code. The payload is
// an opaque blob encrypted client-side; the server never inspects it.
type Test struct {
	ID                uuid.UUID       `json:"id"`
	TestCode          string          `json:"test_code"`
	EncryptedTestData json.RawMessage `json:"encrypted_test_data"`
	DurationMinutes   int             `json:"duration_minutes"`
	AllowCorrections  bool            `json:"allow_corrections"`
	TeacherID         uuid.UUID       `json:"teacher_id"`
	CreatedAt         time.Time       `json:"created_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
}

// Live reports whether the test has not yet expired at the given instant.
func (t *Test) Live(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// TestExpiry computes when a test created at the given instant stops being
// fetchable: the nominal duration plus the fixed grace buffer.
func TestExpiry(createdAt time.Time, durationMinutes int) time.Time {
	return createdAt.Add(time.Duration(durationMinutes)*time.Minute + GraceBuffer)
}

// ValidTestCode reports whether code is exactly 6 ASCII digits.
func ValidTestCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// ValidDuration reports whether a nominal duration is within bounds.
func ValidDuration(minutes int) bool {
	return minutes >= MinDurationMinutes && minutes <= MaxDurationMinutes
}

// CreateTestRequest is the payload for creating a new test.
type CreateTestRequest struct {
	TestCode          string          `json:"test_code" binding:"required,len=6,numeric"`
	EncryptedTestData json.RawMessage `json:"encrypted_test_data" binding:"required"`
	DurationMinutes   int             `json:"duration_minutes" binding:"required,min=1,max=240"`
	AllowCorrections  bool            `json:"allow_corrections"`
}
