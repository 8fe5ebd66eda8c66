package investment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// GetInvestmentInput represents the input for fetching one investment.
type GetInvestmentInput struct {
	UserID       uuid.UUID
	InvestmentID uuid.UUID
}

// GetInvestmentOutput represents the output of fetching one investment.
type GetInvestmentOutput struct {
	Investment *entity.Investment
}

// GetInvestmentUseCase fetches an investment owned by the caller.
type GetInvestmentUseCase struct {
	investmentRepo adapter.InvestmentRepository
}

// NewGetInvestmentUseCase creates a new GetInvestmentUseCase instance.
func NewGetInvestmentUseCase(investmentRepo adapter.InvestmentRepository) *GetInvestmentUseCase {
	return &GetInvestmentUseCase{investmentRepo: investmentRepo}
}

// Execute fetches the investment. Investments of other users are reported as not found.
func (uc *GetInvestmentUseCase) Execute(ctx context.Context, input GetInvestmentInput) (*GetInvestmentOutput, error) {
	investment, err := uc.investmentRepo.FindByID(ctx, input.InvestmentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvestmentNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("failed to load investment: %w", err)
	}
	if investment.UserID != input.UserID {
		return nil, notFound()
	}
	return &GetInvestmentOutput{Investment: investment}, nil
}

func notFound() error {
	return domainerror.NewInvestmentError(
		domainerror.ErrCodeInvestmentNotFound,
		"Investment not found",
		domainerror.ErrInvestmentNotFound,
	)
}
