package service

import "errors"

// Engine errors. Validation errors are returned before any store access;
// store failures are wrapped with %w and carry no sentinel.
var (
	ErrInvalidTestCode  = errors.New("test code must be exactly 6 digits")
	ErrInvalidDuration  = errors.New("duration must be between 1 and 240 minutes")
	ErrInvalidTeacherID = errors.New("invalid teacher id")

	ErrTestCodeTaken = errors.New("a live test with this code already exists")

	ErrTestNotFound       = errors.New("test not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrCorrectionNotFound = errors.New("correction not found")

	ErrCorrectionExists    = errors.New("submission already has a correction")
	ErrCorrectionsDisabled = errors.New("test does not allow corrections")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTeacherNotFound    = errors.New("teacher not found")
)
