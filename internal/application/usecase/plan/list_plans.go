package plan

import (
	"context"
	"fmt"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

// ListPlansInput represents the input for listing plans.
type ListPlansInput struct {
	ActiveOnly bool
}

// ListPlansOutput represents the output of listing plans.
type ListPlansOutput struct {
	Plans []*entity.InvestmentPlan
}

// ListPlansUseCase lists the plan catalog ordered by amount.
type ListPlansUseCase struct {
	planRepo adapter.PlanRepository
}

// NewListPlansUseCase creates a new ListPlansUseCase instance.
func NewListPlansUseCase(planRepo adapter.PlanRepository) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo}
}

// Execute lists the plans.
func (uc *ListPlansUseCase) Execute(ctx context.Context, input ListPlansInput) (*ListPlansOutput, error) {
	plans, err := uc.planRepo.FindAll(ctx, input.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return &ListPlansOutput{Plans: plans}, nil
}
