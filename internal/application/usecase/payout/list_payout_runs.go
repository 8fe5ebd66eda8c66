package payout

import (
	"context"
	"fmt"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// ListPayoutRunsInput represents the input for listing payout runs.
type ListPayoutRunsInput struct {
	Limit int
}

// ListPayoutRunsOutput represents the output of listing payout runs.
type ListPayoutRunsOutput struct {
	Runs []*entity.PayoutRun
}

// ListPayoutRunsUseCase lists recent payout runs.
type ListPayoutRunsUseCase struct {
	runRepo adapter.PayoutRunRepository
}

// NewListPayoutRunsUseCase creates a new ListPayoutRunsUseCase instance.
func NewListPayoutRunsUseCase(runRepo adapter.PayoutRunRepository) *ListPayoutRunsUseCase {
	return &ListPayoutRunsUseCase{runRepo: runRepo}
}

// Execute lists the runs.
func (uc *ListPayoutRunsUseCase) Execute(ctx context.Context, input ListPayoutRunsInput) (*ListPayoutRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	runs, err := uc.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payout runs: %w", err)
	}
	return &ListPayoutRunsOutput{Runs: runs}, nil
}
