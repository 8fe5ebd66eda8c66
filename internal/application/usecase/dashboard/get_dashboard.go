package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// GetDashboardInput represents the input for the account overview.
type GetDashboardInput struct {
	UserID uuid.UUID
}

// GetDashboardOutput represents the account overview.
type GetDashboardOutput struct {
	User        *entity.User
	Investments []*entity.Investment
	Referrals   []*entity.User
	Summary     InvestmentSummary
	Commission  decimal.Decimal
}

// GetDashboardUseCase assembles the account overview.
type GetDashboardUseCase struct {
	userRepo       adapter.UserRepository
	investmentRepo adapter.InvestmentRepository
	dashboardRepo  DashboardRepository
}

// NewGetDashboardUseCase creates a new GetDashboardUseCase instance.
func NewGetDashboardUseCase(
	userRepo adapter.UserRepository,
	investmentRepo adapter.InvestmentRepository,
	dashboardRepo DashboardRepository,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		dashboardRepo:  dashboardRepo,
	}
}

// Execute builds the overview.
func (uc *GetDashboardUseCase) Execute(ctx context.Context, input GetDashboardInput) (*GetDashboardOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "User not found", err)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	investments, err := uc.investmentRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	referrals, err := uc.userRepo.FindReferrals(ctx, user.ReferralCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}

	summary, err := uc.dashboardRepo.GetInvestmentSummary(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise investments: %w", err)
	}

	commission, err := uc.dashboardRepo.GetCommissionEarned(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum commissions: %w", err)
	}

	return &GetDashboardOutput{
		User:        user,
		Investments: investments,
		Referrals:   referrals,
		Summary:     *summary,
		Commission:  commission,
	}, nil
}
