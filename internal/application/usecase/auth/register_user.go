// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// maxReferralCodeAttempts bounds the retries on referral code collisions.
const maxReferralCodeAttempts = 5

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	ReferralCode string
}

// RegisterUserOutput represents the output of user registration.
type RegisterUserOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
	codeGenerator   adapter.ReferralCodeGenerator
	notifier        adapter.Notifier
	clock           adapter.Clock
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	codeGenerator adapter.ReferralCodeGenerator,
	notifier adapter.Notifier,
	clock adapter.Clock,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		codeGenerator:   codeGenerator,
		notifier:        notifier,
		clock:           clock,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"name, email and password are required",
			nil,
		)
	}

	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"password does not meet minimum requirements",
			domainerror.ErrWeakPassword,
		)
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeEmailExists,
			"email already exists",
			domainerror.ErrEmailAlreadyExists,
		)
	}

	// The referrer must already exist, so the referral graph can never close a cycle.
	var referredBy *string
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		referrer, err := uc.userRepo.FindByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				return nil, domainerror.NewAuthError(
					domainerror.ErrCodeInvalidReferralCode,
					"Invalid referral code!",
					domainerror.ErrInvalidReferralCode,
				)
			}
			return nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
		referredBy = &referrer.ReferralCode
	}

	referralCode, err := uc.allocateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(name, email, strings.TrimSpace(input.Phone), passwordHash, referralCode, referredBy, uc.clock.Now().UTC())

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := uc.notifier.QueueWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail:    user.Email,
		UserName:     user.Name,
		ReferralCode: user.ReferralCode,
	}); err != nil {
		slog.Error("Failed to queue welcome email", "user_id", user.ID, "error", err)
	}

	return &RegisterUserOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

func (uc *RegisterUserUseCase) allocateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		code, err := uc.codeGenerator.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		taken, err := uc.userRepo.ExistsByReferralCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", domainerror.ErrReferralCodeUnavailable
}
