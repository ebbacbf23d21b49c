package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the teacher identity.
type Claims struct {
	jwt.RegisteredClaims
	TeacherID string `json:"teacher_id"`
}

// AuthService handles teacher accounts and JWT issuance.
type AuthService struct {
	cfg      *config.Config
	teachers TeacherStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, teachers TeacherStore) *AuthService {
	return &AuthService{cfg: cfg, teachers: teachers}
}

// Register creates a teacher account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.Teacher, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	t := &model.Teacher{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Institution:  req.Institution,
	}

	created, err := s.teachers.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	if !created {
		return nil, ErrEmailTaken
	}
	return t, nil
}

// Login verifies credentials and returns a signed JWT with the teacher.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Teacher, error) {
	t, err := s.teachers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, fmt.Errorf("get teacher: %w", err)
	}
	if t == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(t.ID)
	if err != nil {
		return "", nil, err
	}
	return token, t, nil
}

// GenerateToken creates a signed HS256 JWT for a teacher.
func (s *AuthService) GenerateToken(teacherID uuid.UUID) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   teacherID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TeacherID: teacherID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// GetProfile returns the teacher for the given id.
func (s *AuthService) GetProfile(ctx context.Context, teacherID uuid.UUID) (*model.Teacher, error) {
	t, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if t == nil {
		return nil, ErrTeacherNotFound
	}
	return t, nil
}
