package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// testClock is a controllable time source shared by the service and fakes.
type testClock struct{ t time.Time }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestServiceForTest() (*TestService, *fakeTestStore, *stubCache, *testClock) {
	clock := newTestClock()
	store := newFakeTestStore(clock.Now)
	cache := &stubCache{}
	svc := NewTestService(store, cache, zerolog.Nop())
	svc.now = clock.Now
	return svc, store, cache, clock
}

func validCreateInput() CreateTestInput {
	return CreateTestInput{
		TestCode:          "123456",
		EncryptedTestData: json.RawMessage(`{"ciphertext":"abc"}`),
		DurationMinutes:   60,
		AllowCorrections:  true,
		TeacherID:         uuid.New().String(),
	}
}

func TestCreateRejectsBadCodes(t *testing.T) {
	svc, store, _, _ := newTestServiceForTest()

	for _, code := range []string{"", "12345", "1234567", "12a456", "12345 ", "12345١"} {
		in := validCreateInput()
		in.TestCode = code
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidTestCode) {
			t.Errorf("code %q: got %v, want ErrInvalidTestCode", code, err)
		}
	}
	if store.calls != 0 {
		t.Errorf("store touched %d times before validation passed", store.calls)
	}
}

func TestCreateRejectsBadDurations(t *testing.T) {
	svc, store, _, _ := newTestServiceForTest()

	for _, d := range []int{0, -1, 241, 1000} {
		in := validCreateInput()
		in.DurationMinutes = d
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %d: got %v, want ErrInvalidDuration", d, err)
		}
	}
	for _, d := range []int{1, 120, 240} {
		in := validCreateInput()
		in.DurationMinutes = d
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Errorf("duration %d: unexpected error %v", d, err)
		}
	}
	if store.calls != 3 {
		t.Errorf("store calls = %d, want 3 (only the valid durations)", store.calls)
	}
}

func TestCreateRejectsMalformedOwner(t *testing.T) {
	svc, store, _, _ := newTestServiceForTest()

	in := validCreateInput()
	in.TeacherID = "not-a-uuid"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidTeacherID) {
		t.Fatalf("got %v, want ErrInvalidTeacherID", err)
	}
	if store.calls != 0 {
		t.Error("store touched despite malformed owner id")
	}
}

func TestCreateComputesExpiry(t *testing.T) {
	svc, _, _, clock := newTestServiceForTest()

	in := validCreateInput()
	in.DurationMinutes = 90
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wantExpiry := clock.Now().UTC().Add(90*time.Minute + model.GraceBuffer)
	if !created.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expires_at = %v, want %v (duration + 10min grace)", created.ExpiresAt, wantExpiry)
	}
	if !created.CreatedAt.Equal(clock.Now().UTC()) {
		t.Errorf("created_at = %v, want %v", created.CreatedAt, clock.Now().UTC())
	}
}

func TestCreateConflictOnLiveCode(t *testing.T) {
	svc, store, _, clock := newTestServiceForTest()

	first := validCreateInput()
	orig, err := svc.Create(context.Background(), first)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := validCreateInput()
	if _, err := svc.Create(context.Background(), second); !errors.Is(err, ErrTestCodeTaken) {
		t.Fatalf("got %v, want ErrTestCodeTaken", err)
	}
	if len(store.tests) != 1 || store.tests[0].ID != orig.ID {
		t.Fatal("conflicting create mutated the original row")
	}

	// Once the original expires the code is free again, even before purge.
	clock.Advance(time.Duration(first.DurationMinutes)*time.Minute + model.GraceBuffer + time.Second)
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("create after expiry: %v", err)
	}
	if len(store.tests) != 2 {
		t.Fatalf("expected both rows to coexist until purge, have %d", len(store.tests))
	}
}

func TestFetchLiveness(t *testing.T) {
	svc, _, _, clock := newTestServiceForTest()

	in := validCreateInput()
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Fetch(context.Background(), in.TestCode)
	if err != nil {
		t.Fatalf("fetch live: %v", err)
	}
	if got.ID != created.ID || got.DurationMinutes != in.DurationMinutes || !got.AllowCorrections {
		t.Error("fetch returned wrong test data")
	}

	// Past expiry the row still exists but fetch must report not found,
	// identically to a code that never existed.
	clock.Advance(time.Duration(in.DurationMinutes)*time.Minute + model.GraceBuffer + time.Second)
	if _, err := svc.Fetch(context.Background(), in.TestCode); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("fetch expired: got %v, want ErrTestNotFound", err)
	}
	if _, err := svc.Fetch(context.Background(), "999999"); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("fetch missing: got %v, want ErrTestNotFound", err)
	}
}

func TestFetchRejectsBadCodes(t *testing.T) {
	svc, store, _, _ := newTestServiceForTest()

	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		if _, err := svc.Fetch(context.Background(), code); !errors.Is(err, ErrInvalidTestCode) {
			t.Errorf("code %q: got %v, want ErrInvalidTestCode", code, err)
		}
	}
	if store.calls != 0 {
		t.Error("store touched for malformed codes")
	}
}

func TestFetchServedFromCache(t *testing.T) {
	svc, store, cache, _ := newTestServiceForTest()

	cache.hit = &model.Test{ID: uuid.New(), TestCode: "424242", DurationMinutes: 30}
	got, err := svc.Fetch(context.Background(), "424242")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.ID != cache.hit.ID {
		t.Error("cache hit not returned")
	}
	if store.calls != 0 {
		t.Error("store queried despite cache hit")
	}
}

func TestGetOwnedHidesForeignTests(t *testing.T) {
	svc, _, _, _ := newTestServiceForTest()

	in := validCreateInput()
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), created.ID, created.TeacherID); err != nil {
		t.Errorf("owner lookup: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), created.ID, uuid.New()); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("foreign lookup: got %v, want ErrTestNotFound", err)
	}
}
