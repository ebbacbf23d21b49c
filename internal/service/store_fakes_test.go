package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// In-memory stores implementing the engine's store interfaces. Liveness is
// judged against the injected clock so tests control the passage of time.

type fakeTestStore struct {
	now   func() time.Time
	tests []*model.Test
	calls int
	err   error

	// When set, DeleteExpired keeps tests that still have submissions,
	// matching the repository's NOT EXISTS guard.
	subs *fakeSubmissionStore
}

func newFakeTestStore(now func() time.Time) *fakeTestStore {
	return &fakeTestStore{now: now}
}

func (f *fakeTestStore) CreateIfVacant(_ context.Context, t *model.Test) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.tests {
		if existing.TestCode == t.TestCode && existing.Live(f.now()) {
			return false, nil
		}
	}
	t.ID = uuid.New()
	cp := *t
	f.tests = append(f.tests, &cp)
	return true, nil
}

func (f *fakeTestStore) FindLiveByCode(_ context.Context, code string) (*model.Test, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tests {
		if t.TestCode == code && t.Live(f.now()) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTestStore) FindByCode(_ context.Context, code string) (*model.Test, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var latest *model.Test
	for _, t := range f.tests {
		if t.TestCode == code && (latest == nil || t.ExpiresAt.After(latest.ExpiresAt)) {
			latest = t
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeTestStore) GetByID(_ context.Context, id uuid.UUID) (*model.Test, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tests {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTestStore) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]model.Test, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Test
	for _, t := range f.tests {
		if t.TeacherID == teacherID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTestStore) DeleteExpired(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var kept []*model.Test
	var deleted int64
	for _, t := range f.tests {
		if t.Live(f.now()) || f.hasSubmissions(t.ID) {
			kept = append(kept, t)
		} else {
			deleted++
		}
	}
	f.tests = kept
	return deleted, nil
}

func (f *fakeTestStore) hasSubmissions(testID uuid.UUID) bool {
	if f.subs == nil {
		return false
	}
	for _, s := range f.subs.subs {
		if s.TestID == testID {
			return true
		}
	}
	return false
}

type fakeSubmissionStore struct {
	now  func() time.Time
	subs []*model.Submission
	err  error

	// When set, DeleteExpired keeps submissions that still have a
	// correction, matching the repository's NOT EXISTS guard.
	corrections *fakeCorrectionStore
}

func newFakeSubmissionStore(now func() time.Time) *fakeSubmissionStore {
	return &fakeSubmissionStore{now: now}
}

func (f *fakeSubmissionStore) Create(_ context.Context, s *model.Submission) error {
	if f.err != nil {
		return f.err
	}
	s.ID = uuid.New()
	cp := *s
	f.subs = append(f.subs, &cp)
	return nil
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.subs {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionStore) ListByTest(_ context.Context, testID uuid.UUID) ([]model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Submission
	for _, s := range f.subs {
		if s.TestID == testID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) ListSuspiciousByTeacher(_ context.Context, _ uuid.UUID) ([]model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Submission
	for _, s := range f.subs {
		if s.IsSuspicious {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) UpdateScore(_ context.Context, submissionID, _ uuid.UUID, score float64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, s := range f.subs {
		if s.ID == submissionID {
			s.Score = &score
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubmissionStore) DeleteExpired(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var kept []*model.Submission
	var deleted int64
	for _, s := range f.subs {
		if f.now().Before(s.ExpiresAt) || f.hasCorrection(s.ID) {
			kept = append(kept, s)
		} else {
			deleted++
		}
	}
	f.subs = kept
	return deleted, nil
}

func (f *fakeSubmissionStore) hasCorrection(submissionID uuid.UUID) bool {
	if f.corrections == nil {
		return false
	}
	for _, c := range f.corrections.corrections {
		if c.SubmissionID == submissionID {
			return true
		}
	}
	return false
}

type fakeCorrectionStore struct {
	now         func() time.Time
	corrections []*model.Correction
	err         error
}

func newFakeCorrectionStore(now func() time.Time) *fakeCorrectionStore {
	return &fakeCorrectionStore{now: now}
}

func (f *fakeCorrectionStore) Create(_ context.Context, c *model.Correction) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.corrections {
		if existing.SubmissionID == c.SubmissionID {
			return false, nil
		}
	}
	c.ID = uuid.New()
	cp := *c
	f.corrections = append(f.corrections, &cp)
	return true, nil
}

func (f *fakeCorrectionStore) GetBySubmission(_ context.Context, submissionID uuid.UUID) (*model.Correction, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.corrections {
		if c.SubmissionID == submissionID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCorrectionStore) DeleteExpired(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var kept []*model.Correction
	var deleted int64
	for _, c := range f.corrections {
		if f.now().Before(c.ExpiresAt) {
			kept = append(kept, c)
		} else {
			deleted++
		}
	}
	f.corrections = kept
	return deleted, nil
}

// stubCache records puts and optionally serves a single hit.
type stubCache struct {
	hit  *model.Test
	puts int
}

func (c *stubCache) Get(_ context.Context, code string) (*model.Test, bool) {
	if c.hit != nil && c.hit.TestCode == code {
		return c.hit, true
	}
	return nil, false
}

func (c *stubCache) Put(_ context.Context, _ *model.Test, _ time.Duration) { c.puts++ }

// stubMonitor records published submission events.
type stubMonitor struct {
	events []*model.Submission
}

func (m *stubMonitor) SubmissionAccepted(_ context.Context, sub *model.Submission) {
	m.events = append(m.events, sub)
}

// fixedDeleter returns a preset count or error for purge tests.
type fixedDeleter struct {
	count int64
	err   error
}

func (d *fixedDeleter) DeleteExpired(_ context.Context) (int64, error) {
	return d.count, d.err
}
