package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
)

// AdminHandler serves operational endpoints.
type AdminHandler struct {
	purgeService *service.PurgeService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(purgeService *service.PurgeService) *AdminHandler {
	return &AdminHandler{purgeService: purgeService}
}

// Flush godoc
// POST /api/v1/admin/flush
// Deletes all expired tests, submissions and corrections immediately, ahead
// of the scheduled purge, and reports per-kind counts.
func (h *AdminHandler) Flush(c *gin.Context) {
	res, err := h.purgeService.PurgeExpired(c.Request.Context())
	if err != nil {
		// Partial counts are still useful to the operator, but the failure
		// has to be visible.
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purged": res})
}
