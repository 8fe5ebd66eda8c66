// Package plan contains investment plan catalog use cases.
package plan

import (
	"context"
	"log/slog"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// SeedPlansInput represents the input for seeding the plan catalog.
type SeedPlansInput struct {
	// OnlyIfEmpty skips seeding when plans already exist.
	OnlyIfEmpty bool
}

// SeedPlansOutput represents the output of seeding the plan catalog.
type SeedPlansOutput struct {
	Seeded bool
	Plans  []*entity.InvestmentPlan
}

// SeedPlansUseCase replaces the plan catalog with the built-in plans.
type SeedPlansUseCase struct {
	planRepo adapter.PlanRepository
	clock    adapter.Clock
}

// NewSeedPlansUseCase creates a new SeedPlansUseCase instance.
func NewSeedPlansUseCase(planRepo adapter.PlanRepository, clock adapter.Clock) *SeedPlansUseCase {
	return &SeedPlansUseCase{planRepo: planRepo, clock: clock}
}

// Execute deletes every plan and re-inserts the catalog.
func (uc *SeedPlansUseCase) Execute(ctx context.Context, input SeedPlansInput) (*SeedPlansOutput, error) {
	if input.OnlyIfEmpty {
		count, err := uc.planRepo.Count(ctx)
		if err != nil {
			return nil, domainerror.NewPlanError(domainerror.ErrCodeSeedFailed, "failed to count plans", err)
		}
		if count > 0 {
			return &SeedPlansOutput{Seeded: false}, nil
		}
	}

	plans := entity.DefaultPlanCatalog(uc.clock.Now().UTC())
	if err := uc.planRepo.ReplaceAll(ctx, plans); err != nil {
		return nil, domainerror.NewPlanError(domainerror.ErrCodeSeedFailed, "failed to seed plans", err)
	}

	slog.Info("Investment plans seeded", "count", len(plans))

	return &SeedPlansOutput{Seeded: true, Plans: plans}, nil
}
