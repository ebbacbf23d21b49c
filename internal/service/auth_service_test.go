package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeTeacherStore struct {
	teachers []*model.Teacher
	err      error
}

func (f *fakeTeacherStore) Create(_ context.Context, t *model.Teacher) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.teachers {
		if existing.Email == t.Email {
			return false, nil
		}
	}
	t.ID = uuid.New()
	cp := *t
	f.teachers = append(f.teachers, &cp)
	return true, nil
}

func (f *fakeTeacherStore) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.teachers {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id uuid.UUID) (*model.Teacher, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.teachers {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func newAuthServiceForTest() (*AuthService, *fakeTeacherStore) {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	store := &fakeTeacherStore{}
	return NewAuthService(cfg, store), store
}

func registerReq() model.RegisterRequest {
	return model.RegisterRequest{
		Email:    "Teacher@Example.COM",
		Password: "correct horse",
		FullName: "Pat Teacher",
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	teacher, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if teacher.Email != "teacher@example.com" {
		t.Errorf("email = %q, want lowercased", teacher.Email)
	}
	if teacher.PasswordHash == "correct horse" {
		t.Error("password stored in the clear")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	req := registerReq()
	req.Email = "teacher@example.com" // same address, different casing on file
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	registered, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, teacher, err := svc.Login(context.Background(), "teacher@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if teacher.ID != registered.ID {
		t.Error("login returned a different teacher")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TeacherID != registered.ID.String() {
		t.Errorf("token teacher_id = %q, want %q", claims.TeacherID, registered.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown account and wrong password fail identically.
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "teacher@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateTokenRejectsForgedSignature(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	otherCfg := &config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}
	other := NewAuthService(otherCfg, &fakeTeacherStore{})
	forged, err := other.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateToken(forged); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}
