package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/anticheat"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

func newSubmissionServiceForTest() (*SubmissionService, *fakeTestStore, *fakeSubmissionStore, *stubMonitor, *testClock) {
	clock := newTestClock()
	tests := newFakeTestStore(clock.Now)
	subs := newFakeSubmissionStore(clock.Now)
	monitor := &stubMonitor{}
	svc := NewSubmissionService(subs, tests, monitor, zerolog.Nop())
	svc.now = clock.Now
	return svc, tests, subs, monitor, clock
}

func seedTest(t *testing.T, store *fakeTestStore, code string, minutes int) *model.Test {
	t.Helper()
	createdAt := store.now().UTC()
	test := &model.Test{
		TestCode:          code,
		EncryptedTestData: json.RawMessage(`{"ciphertext":"abc"}`),
		DurationMinutes:   minutes,
		AllowCorrections:  true,
		TeacherID:         uuid.New(),
		CreatedAt:         createdAt,
		ExpiresAt:         model.TestExpiry(createdAt, minutes),
	}
	created, err := store.CreateIfVacant(context.Background(), test)
	if err != nil || !created {
		t.Fatalf("seed test: created=%v err=%v", created, err)
	}
	return test
}

func TestSubmitStoresCleanSubmission(t *testing.T) {
	svc, tests, _, monitor, clock := newSubmissionServiceForTest()
	seeded := seedTest(t, tests, "123456", 60)

	exit := clock.Now().UnixMilli() + 5000
	sub, err := svc.Submit(context.Background(), SubmitInput{
		TestCode:                "123456",
		StudentName:             "Ada Lovelace",
		EncryptedSubmissionData: json.RawMessage(`{"ciphertext":"ans"}`),
		TimeLogs: []anticheat.TimeLog{
			{QuestionID: "q1", Entry: clock.Now().UnixMilli(), Exit: &exit},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.TestID != seeded.ID {
		t.Error("submission not linked to the resolved test")
	}
	if sub.IsSuspicious {
		t.Error("clean timeline flagged suspicious")
	}
	if sub.StudentName != "Ada Lovelace" {
		t.Errorf("student name = %q", sub.StudentName)
	}
	wantExpiry := clock.Now().UTC().Add(model.ReviewRetention)
	if !sub.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expires_at = %v, want %v", sub.ExpiresAt, wantExpiry)
	}
	if len(monitor.events) != 1 || monitor.events[0].ID != sub.ID {
		t.Error("monitor not notified of the accepted submission")
	}
}

func TestSubmitAcceptsExpiredTest(t *testing.T) {
	svc, tests, _, _, clock := newSubmissionServiceForTest()
	seedTest(t, tests, "123456", 30)

	// A student finishing after the window closes keeps their work.
	clock.Advance(30*time.Minute + model.GraceBuffer + time.Hour)
	if _, err := svc.Submit(context.Background(), SubmitInput{TestCode: "123456"}); err != nil {
		t.Fatalf("submit against expired test: %v", err)
	}
}

func TestSubmitUnknownCode(t *testing.T) {
	svc, _, _, monitor, _ := newSubmissionServiceForTest()

	if _, err := svc.Submit(context.Background(), SubmitInput{TestCode: "999999"}); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("got %v, want ErrTestNotFound", err)
	}
	if len(monitor.events) != 0 {
		t.Error("monitor notified for a rejected submission")
	}
}

func TestSubmitDefaultsStudentName(t *testing.T) {
	svc, tests, _, _, _ := newSubmissionServiceForTest()
	seedTest(t, tests, "123456", 60)

	for _, name := range []string{"", "   ", "\t\n"} {
		sub, err := svc.Submit(context.Background(), SubmitInput{TestCode: "123456", StudentName: name})
		if err != nil {
			t.Fatalf("submit with name %q: %v", name, err)
		}
		if sub.StudentName != model.AnonymousStudent {
			t.Errorf("name %q stored as %q, want %q", name, sub.StudentName, model.AnonymousStudent)
		}
	}

	sub, err := svc.Submit(context.Background(), SubmitInput{TestCode: "123456", StudentName: "  Grace  "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.StudentName != "Grace" {
		t.Errorf("name not trimmed: %q", sub.StudentName)
	}
}

func TestSubmitFlagsSuspiciousTimeline(t *testing.T) {
	svc, tests, _, monitor, _ := newSubmissionServiceForTest()
	seedTest(t, tests, "123456", 60)

	exit := int64(500) // exit before entry
	sub, err := svc.Submit(context.Background(), SubmitInput{
		TestCode: "123456",
		TimeLogs: []anticheat.TimeLog{{QuestionID: "q1", Entry: 1000, Exit: &exit}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.IsSuspicious {
		t.Error("inverted window not flagged")
	}
	// Suspicious submissions are accepted and announced like any other.
	if len(monitor.events) != 1 {
		t.Error("monitor not notified")
	}
}

func TestListByTestRequiresOwnership(t *testing.T) {
	svc, tests, _, _, _ := newSubmissionServiceForTest()
	seeded := seedTest(t, tests, "123456", 60)

	if _, err := svc.Submit(context.Background(), SubmitInput{TestCode: "123456"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	subs, err := svc.ListByTest(context.Background(), seeded.ID, seeded.TeacherID)
	if err != nil {
		t.Fatalf("list as owner: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}

	if _, err := svc.ListByTest(context.Background(), seeded.ID, uuid.New()); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("list as stranger: got %v, want ErrTestNotFound", err)
	}
}

func TestSetScore(t *testing.T) {
	svc, tests, _, _, _ := newSubmissionServiceForTest()
	seeded := seedTest(t, tests, "123456", 60)

	sub, err := svc.Submit(context.Background(), SubmitInput{TestCode: "123456"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.SetScore(context.Background(), sub.ID, seeded.TeacherID, 87.5); err != nil {
		t.Fatalf("set score: %v", err)
	}
	if err := svc.SetScore(context.Background(), uuid.New(), seeded.TeacherID, 50); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("score unknown submission: got %v, want ErrSubmissionNotFound", err)
	}
}
