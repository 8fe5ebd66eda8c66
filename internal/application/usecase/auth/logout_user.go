package auth

import (
	"context"

	"github.com/natural-surplus/backend/internal/application/adapter"
)

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	RefreshToken string
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message string
}

// LogoutUserUseCase revokes a refresh token.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{tokenService: tokenService}
}

// Execute invalidates the refresh token. Unknown tokens are ignored.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	_ = uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken)

	return &LogoutUserOutput{Message: "Successfully logged out"}, nil
}
