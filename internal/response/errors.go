package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrUnauthorized       ErrCode = "UNAUTHORIZED"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Test lifecycle
	ErrInvalidTestCode     ErrCode = "INVALID_TEST_CODE"
	ErrInvalidDuration     ErrCode = "INVALID_DURATION"
	ErrTestCodeTaken       ErrCode = "TEST_CODE_TAKEN"
	ErrTestNotFound        ErrCode = "TEST_NOT_FOUND"
	ErrSubmissionNotFound  ErrCode = "SUBMISSION_NOT_FOUND"
	ErrCorrectionNotFound  ErrCode = "CORRECTION_NOT_FOUND"
	ErrCorrectionExists    ErrCode = "CORRECTION_EXISTS"
	ErrCorrectionsDisabled ErrCode = "CORRECTIONS_DISABLED"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrUnauthorized:
		return "You are not authorized to perform this action."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "The request payload is malformed."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrInvalidTestCode:
		return "Test code must be exactly six digits."
	case ErrInvalidDuration:
		return "Test duration must be between 1 and 240 minutes."
	case ErrTestCodeTaken:
		return "An active test with this code already exists."
	case ErrTestNotFound:
		return "No active test matches this code."
	case ErrSubmissionNotFound:
		return "Submission not found."
	case ErrCorrectionNotFound:
		return "No correction exists for this submission."
	case ErrCorrectionExists:
		return "This submission already has a correction."
	case ErrCorrectionsDisabled:
		return "Corrections are not enabled for this test."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
