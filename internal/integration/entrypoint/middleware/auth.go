// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate returns a Gin middleware handler that enforces bearer authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, msg := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, code, msg)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, domainerror.ErrCodeInvalidToken, "Invalid or expired token")
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserEmailKey), claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, domainerror.AuthErrorCode, string) {
	if header == "" {
		return "", domainerror.ErrCodeMissingToken, "Authorization header is required"
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", domainerror.ErrCodeInvalidToken, "Invalid authorization header format"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerror.ErrCodeMissingToken, "Token is required"
	}
	return token, "", ""
}

func abortUnauthorized(c *gin.Context, code domainerror.AuthErrorCode, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: msg,
		Code:  string(code),
	})
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}
