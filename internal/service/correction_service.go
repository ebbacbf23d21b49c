package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// CorrectionService manages teacher-authored correction records.
type CorrectionService struct {
	corrections CorrectionStore
	subs        SubmissionStore
	tests       TestStore
	log         zerolog.Logger
	now         func() time.Time
}

// NewCorrectionService creates a new CorrectionService.
func NewCorrectionService(corrections CorrectionStore, subs SubmissionStore, tests TestStore, log zerolog.Logger) *CorrectionService {
	return &CorrectionService{
		corrections: corrections,
		subs:        subs,
		tests:       tests,
		log:         log.With().Str("component", "correction_service").Logger(),
		now:         time.Now,
	}
}

// Create attaches a correction to a submission on one of the teacher's own
// tests. The test must have been created with allow_corrections, and each
// submission takes at most one correction.
func (s *CorrectionService) Create(ctx context.Context, submissionID, teacherID uuid.UUID, in model.CreateCorrectionRequest) (*model.Correction, error) {
	sub, err := s.subs.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}

	t, err := s.tests.GetByID(ctx, sub.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	// Without the test row ownership cannot be proven.
	if t == nil || t.TeacherID != teacherID {
		return nil, ErrSubmissionNotFound
	}
	if !t.AllowCorrections {
		return nil, ErrCorrectionsDisabled
	}

	createdAt := s.now().UTC()
	c := &model.Correction{
		SubmissionID:            submissionID,
		EncryptedCorrectionData: in.EncryptedCorrectionData,
		TeacherNotes:            in.TeacherNotes,
		CreatedAt:               createdAt,
		ExpiresAt:               createdAt.Add(model.ReviewRetention),
	}

	created, err := s.corrections.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("insert correction: %w", err)
	}
	if !created {
		return nil, ErrCorrectionExists
	}

	s.log.Info().
		Str("correction_id", c.ID.String()).
		Str("submission_id", submissionID.String()).
		Msg("Correction created")

	return c, nil
}

// GetBySubmission returns the correction attached to a submission.
func (s *CorrectionService) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.Correction, error) {
	c, err := s.corrections.GetBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get correction: %w", err)
	}
	if c == nil {
		return nil, ErrCorrectionNotFound
	}
	return c, nil
}
