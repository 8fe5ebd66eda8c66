// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=16"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents the response for authentication endpoints.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// TokenResponse represents the response for token refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	ReferralCode string          `json:"referral_code"`
	ReferredBy   *string         `json:"referred_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Balance:      user.Balance,
		ReferralCode: user.ReferralCode,
		ReferredBy:   user.ReferredBy,
		CreatedAt:    user.CreatedAt,
	}
}
