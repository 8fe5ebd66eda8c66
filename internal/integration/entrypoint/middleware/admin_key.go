package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// AdminKeyHeader carries the operator API key.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey rejects requests whose X-Admin-Key does not match key.
// When key is empty every admin request is rejected.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid admin key",
				Code:  string(domainerror.ErrCodeInvalidAdminKey),
			})
			return
		}
		c.Next()
	}
}
