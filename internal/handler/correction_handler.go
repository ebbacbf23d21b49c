package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
)

// CorrectionHandler handles the public correction lookup.
type CorrectionHandler struct {
	correctionService *service.CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(correctionService *service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionService: correctionService}
}

// GetBySubmission godoc
// GET /api/v1/submissions/:id/correction
// Returns the correction attached to a submission, if any.
func (h *CorrectionHandler) GetBySubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	correction, err := h.correctionService.GetBySubmission(c.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, service.ErrCorrectionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCorrectionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"correction": correction})
}
