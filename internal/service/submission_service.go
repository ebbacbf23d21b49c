package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/anticheat"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// SubmissionService accepts student submissions and serves the teacher's
// review queries.
type SubmissionService struct {
	subs    SubmissionStore
	tests   TestStore
	monitor MonitorPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(subs SubmissionStore, tests TestStore, monitor MonitorPublisher, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		subs:    subs,
		tests:   tests,
		monitor: monitor,
		log:     log.With().Str("component", "submission_service").Logger(),
		now:     time.Now,
	}
}

// SubmitInput carries a submission request into the engine.
type SubmitInput struct {
	TestCode                string
	StudentName             string
	EncryptedSubmissionData json.RawMessage
	TimeLogs                []anticheat.TimeLog
}

// Submit resolves the test at any liveness state (a student finishing right
// at the boundary must not lose their work), runs the activity-log analysis
// and stores the submission. Suspicious submissions are stored like any
// other; the flag is advisory for later review, never a gate.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*model.Submission, error) {
	t, err := s.tests.FindByCode(ctx, in.TestCode)
	if err != nil {
		return nil, fmt.Errorf("resolve test: %w", err)
	}
	if t == nil {
		return nil, ErrTestNotFound
	}

	name := strings.TrimSpace(in.StudentName)
	if name == "" {
		name = model.AnonymousStudent
	}

	submittedAt := s.now().UTC()
	sub := &model.Submission{
		TestID:                  t.ID,
		StudentName:             name,
		EncryptedSubmissionData: in.EncryptedSubmissionData,
		TimeLogs:                in.TimeLogs,
		IsSuspicious:            anticheat.IsSuspicious(in.TimeLogs),
		SubmittedAt:             submittedAt,
		ExpiresAt:               submittedAt.Add(model.ReviewRetention),
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	s.monitor.SubmissionAccepted(ctx, sub)

	evt := s.log.Info()
	if sub.IsSuspicious {
		evt = s.log.Warn()
	}
	evt.
		Str("submission_id", sub.ID.String()).
		Str("test_code", t.TestCode).
		Bool("suspicious", sub.IsSuspicious).
		Msg("Submission accepted")

	return sub, nil
}

// ListByTest returns the submissions for a test the teacher owns, newest
// first.
func (s *SubmissionService) ListByTest(ctx context.Context, testID, teacherID uuid.UUID) ([]model.Submission, error) {
	t, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if t == nil || t.TeacherID != teacherID {
		return nil, ErrTestNotFound
	}

	subs, err := s.subs.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ListSuspicious returns flagged submissions across every test the teacher
// owns.
func (s *SubmissionService) ListSuspicious(ctx context.Context, teacherID uuid.UUID) ([]model.Submission, error) {
	subs, err := s.subs.ListSuspiciousByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list suspicious submissions: %w", err)
	}
	return subs, nil
}

// SetScore records a teacher's score for a submission on one of their own
// tests.
func (s *SubmissionService) SetScore(ctx context.Context, submissionID, teacherID uuid.UUID, score float64) error {
	updated, err := s.subs.UpdateScore(ctx, submissionID, teacherID, score)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if !updated {
		return ErrSubmissionNotFound
	}
	return nil
}
