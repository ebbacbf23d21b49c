package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/middleware"
	"github.com/vaultexam/vaultexam-backend/internal/model"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
	"github.com/vaultexam/vaultexam-backend/internal/validator"
)

// TeacherPortalHandler serves the authenticated review surface: a teacher's
// tests, their submissions, scoring and corrections.
type TeacherPortalHandler struct {
	testService       *service.TestService
	submissionService *service.SubmissionService
	correctionService *service.CorrectionService
}

// NewTeacherPortalHandler creates a new TeacherPortalHandler.
func NewTeacherPortalHandler(
	testService *service.TestService,
	submissionService *service.SubmissionService,
	correctionService *service.CorrectionService,
) *TeacherPortalHandler {
	return &TeacherPortalHandler{
		testService:       testService,
		submissionService: submissionService,
		correctionService: correctionService,
	}
}

// ListTests godoc
// GET /api/v1/teacher/tests
// Returns every test the teacher has created, live or expired.
func (h *TeacherPortalHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListByTeacher(c.Request.Context(), middleware.TeacherID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// ListSubmissions godoc
// GET /api/v1/teacher/tests/:id/submissions
// Returns the submissions for one of the teacher's tests.
func (h *TeacherPortalHandler) ListSubmissions(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	subs, err := h.submissionService.ListByTest(c.Request.Context(), testID, middleware.TeacherID(c))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// ListSuspicious godoc
// GET /api/v1/teacher/submissions/suspicious
// Returns flagged submissions across every test the teacher owns.
func (h *TeacherPortalHandler) ListSuspicious(c *gin.Context) {
	subs, err := h.submissionService.ListSuspicious(c.Request.Context(), middleware.TeacherID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// SetScore godoc
// PUT /api/v1/teacher/submissions/:id/score
// Records a score for a submission on one of the teacher's tests.
func (h *TeacherPortalHandler) SetScore(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ScoreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.submissionService.SetScore(c.Request.Context(), submissionID, middleware.TeacherID(c), req.Score); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// CreateCorrection godoc
// POST /api/v1/teacher/submissions/:id/correction
// Attaches a correction to a submission. The test must allow corrections and
// each submission takes at most one.
func (h *TeacherPortalHandler) CreateCorrection(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateCorrectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	correction, err := h.correctionService.Create(c.Request.Context(), submissionID, middleware.TeacherID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSubmissionNotFound)
		case errors.Is(err, service.ErrCorrectionsDisabled):
			response.Fail(c, http.StatusForbidden, response.ErrCorrectionsDisabled)
		case errors.Is(err, service.ErrCorrectionExists):
			response.Fail(c, http.StatusConflict, response.ErrCorrectionExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"correction": correction})
}
