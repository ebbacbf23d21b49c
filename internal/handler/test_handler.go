package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultexam/vaultexam-backend/internal/middleware"
	"github.com/vaultexam/vaultexam-backend/internal/model"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
	"github.com/vaultexam/vaultexam-backend/internal/validator"
)

// TestHandler handles test creation and the public code-gated fetch.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Create godoc
// POST /api/v1/tests
// Creates a test unless a live one already holds the code.
func (h *TestHandler) Create(c *gin.Context) {
	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	t, err := h.testService.Create(c.Request.Context(), service.CreateTestInput{
		TestCode:          req.TestCode,
		EncryptedTestData: req.EncryptedTestData,
		DurationMinutes:   req.DurationMinutes,
		AllowCorrections:  req.AllowCorrections,
		TeacherID:         claims.TeacherID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTestCode):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidTestCode)
		case errors.Is(err, service.ErrInvalidDuration):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDuration)
		case errors.Is(err, service.ErrInvalidTeacherID):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		case errors.Is(err, service.ErrTestCodeTaken):
			response.Fail(c, http.StatusConflict, response.ErrTestCodeTaken)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": t})
}

// Fetch godoc
// GET /api/v1/tests/:code
// Returns the live test for an access code. Expired and unknown codes are
// both 404.
func (h *TestHandler) Fetch(c *gin.Context) {
	t, err := h.testService.Fetch(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTestCode):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidTestCode)
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	// Students only need the payload and the clock parameters, not the
	// owner's identity.
	response.Success(c, http.StatusOK, gin.H{
		"test": gin.H{
			"test_code":           t.TestCode,
			"encrypted_test_data": t.EncryptedTestData,
			"duration_minutes":    t.DurationMinutes,
			"allow_corrections":   t.AllowCorrections,
			"created_at":          t.CreatedAt,
			"expires_at":          t.ExpiresAt,
		},
	})
}
