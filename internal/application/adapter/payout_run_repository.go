package adapter

import (
	"context"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// PayoutRunRepository defines the interface for payout run audit records.
type PayoutRunRepository interface {
	Create(ctx context.Context, run *entity.PayoutRun) error
	Update(ctx context.Context, run *entity.PayoutRun) error
	// FindRecent lists the latest runs, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.PayoutRun, error)
}
