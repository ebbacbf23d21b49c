package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultexam/vaultexam-backend/internal/model"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
	"github.com/vaultexam/vaultexam-backend/internal/validator"
)

// SubmissionHandler handles the public submission endpoint.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit godoc
// POST /api/v1/tests/:code/submissions
// Stores a student's answers. Works even after the test window has closed;
// only codes that never existed are rejected.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), service.SubmitInput{
		TestCode:                c.Param("code"),
		StudentName:             req.StudentName,
		EncryptedSubmissionData: req.EncryptedSubmissionData,
		TimeLogs:                req.TimeLogs,
	})
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": submissionMessage(sub.IsSuspicious),
		"submission": gin.H{
			"id":            sub.ID,
			"student_name":  sub.StudentName,
			"is_suspicious": sub.IsSuspicious,
			"submitted_at":  sub.SubmittedAt,
		},
	})
}

// submissionMessage picks the advisory text for an accepted submission.
// Flagged submissions are stored like any other; only the wording changes.
func submissionMessage(suspicious bool) string {
	if suspicious {
		return "Submission received. Irregular activity was detected and flagged for review."
	}
	return "Submission received."
}
