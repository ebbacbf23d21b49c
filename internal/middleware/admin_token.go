package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vaultexam/vaultexam-backend/internal/response"
)

// RequireAdminToken gates operational endpoints behind a static bearer token.
// When no token is configured the endpoints are disabled entirely.
func RequireAdminToken(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		presented := ""
		authHeader := c.GetHeader("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			presented = parts[1]
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(adminToken)) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		c.Next()
	}
}
