package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// The store interfaces are the engine's only view of persistence. The pgx
// repositories satisfy them in production; tests substitute in-memory fakes.
// Lookups return (nil, nil) when no row matches so callers can distinguish
// absence from store failure.

// TestStore persists tests.
type TestStore interface {
	// CreateIfVacant inserts the test unless a live row with the same code
	// exists, atomically, and reports whether the insert happened.
	CreateIfVacant(ctx context.Context, t *model.Test) (bool, error)
	FindLiveByCode(ctx context.Context, code string) (*model.Test, error)
	FindByCode(ctx context.Context, code string) (*model.Test, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Test, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// SubmissionStore persists submissions.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Submission, error)
	ListSuspiciousByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Submission, error)
	UpdateScore(ctx context.Context, submissionID, teacherID uuid.UUID, score float64) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// CorrectionStore persists corrections.
type CorrectionStore interface {
	Create(ctx context.Context, c *model.Correction) (bool, error)
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.Correction, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// TeacherStore persists teacher accounts.
type TeacherStore interface {
	Create(ctx context.Context, t *model.Teacher) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.Teacher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
}

// ExpiredDeleter is the slice of a store the purge operation needs.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
