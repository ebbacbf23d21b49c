package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// TestService owns the test lifecycle: creation with the atomic live-code
// conflict check, and the liveness-gated fetch.
type TestService struct {
	tests TestStore
	cache TestCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewTestService creates a new TestService.
func NewTestService(tests TestStore, cache TestCache, log zerolog.Logger) *TestService {
	return &TestService{
		tests: tests,
		cache: cache,
		log:   log.With().Str("component", "test_service").Logger(),
		now:   time.Now,
	}
}

// CreateTestInput carries a creation request into the engine. TeacherID is
// kept as the raw string so malformed owner ids fail here, before any store
// access, rather than in the transport layer.
type CreateTestInput struct {
	TestCode          string
	EncryptedTestData json.RawMessage
	DurationMinutes   int
	AllowCorrections  bool
	TeacherID         string
}

// Create validates the input, computes the expiry window and inserts the
// test unless a live one already holds the code.
func (s *TestService) Create(ctx context.Context, in CreateTestInput) (*model.Test, error) {
	if !model.ValidTestCode(in.TestCode) {
		return nil, ErrInvalidTestCode
	}
	if !model.ValidDuration(in.DurationMinutes) {
		return nil, ErrInvalidDuration
	}
	teacherID, err := uuid.Parse(in.TeacherID)
	if err != nil {
		return nil, ErrInvalidTeacherID
	}

	createdAt := s.now().UTC()
	t := &model.Test{
		TestCode:          in.TestCode,
		EncryptedTestData: in.EncryptedTestData,
		DurationMinutes:   in.DurationMinutes,
		AllowCorrections:  in.AllowCorrections,
		TeacherID:         teacherID,
		CreatedAt:         createdAt,
		ExpiresAt:         model.TestExpiry(createdAt, in.DurationMinutes),
	}

	created, err := s.tests.CreateIfVacant(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	if !created {
		return nil, ErrTestCodeTaken
	}

	s.cache.Put(ctx, t, t.ExpiresAt.Sub(createdAt))

	s.log.Info().
		Str("test_code", t.TestCode).
		Str("teacher_id", teacherID.String()).
		Time("expires_at", t.ExpiresAt).
		Msg("Test created")

	return t, nil
}

// Fetch returns the live test with the given code. Missing and expired codes
// are indistinguishable to the caller so expired codes cannot be probed.
func (s *TestService) Fetch(ctx context.Context, code string) (*model.Test, error) {
	if !model.ValidTestCode(code) {
		return nil, ErrInvalidTestCode
	}

	if t, ok := s.cache.Get(ctx, code); ok {
		return t, nil
	}

	t, err := s.tests.FindLiveByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find live test: %w", err)
	}
	if t == nil {
		return nil, ErrTestNotFound
	}

	s.cache.Put(ctx, t, t.ExpiresAt.Sub(s.now()))
	return t, nil
}

// ListByTeacher returns every test the teacher has created, live or expired.
func (s *TestService) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Test, error) {
	tests, err := s.tests.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// GetOwned resolves a test by id and verifies the teacher owns it. Ownership
// failures look like missing tests so ids cannot be probed across accounts.
func (s *TestService) GetOwned(ctx context.Context, testID, teacherID uuid.UUID) (*model.Test, error) {
	t, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if t == nil || t.TeacherID != teacherID {
		return nil, ErrTestNotFound
	}
	return t, nil
}
