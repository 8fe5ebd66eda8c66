package investment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

// ListInvestmentsInput represents the input for listing a user's investments.
type ListInvestmentsInput struct {
	UserID uuid.UUID
}

// ListInvestmentsOutput represents the output of listing a user's investments.
type ListInvestmentsOutput struct {
	Investments []*entity.Investment
}

// ListInvestmentsUseCase lists a user's investments, newest first.
type ListInvestmentsUseCase struct {
	investmentRepo adapter.InvestmentRepository
}

// NewListInvestmentsUseCase creates a new ListInvestmentsUseCase instance.
func NewListInvestmentsUseCase(investmentRepo adapter.InvestmentRepository) *ListInvestmentsUseCase {
	return &ListInvestmentsUseCase{investmentRepo: investmentRepo}
}

// Execute lists the investments.
func (uc *ListInvestmentsUseCase) Execute(ctx context.Context, input ListInvestmentsInput) (*ListInvestmentsOutput, error) {
	investments, err := uc.investmentRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return &ListInvestmentsOutput{Investments: investments}, nil
}
