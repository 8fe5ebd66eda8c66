package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// PlanRepository defines the interface for investment plan persistence operations.
type PlanRepository interface {
	// ReplaceAll deletes every plan and inserts the given ones.
	ReplaceAll(ctx context.Context, plans []*entity.InvestmentPlan) error

	// FindByID retrieves a plan by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.InvestmentPlan, error)

	// FindAll lists plans ordered by amount.
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.InvestmentPlan, error)

	// Count returns the number of stored plans.
	Count(ctx context.Context) (int64, error)
}
