package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// InvestmentRepository defines the interface for investment persistence operations.
type InvestmentRepository interface {
	// Create persists a new investment.
	Create(ctx context.Context, investment *entity.Investment) error

	// FindByID retrieves an investment by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Investment, error)

	// FindByUser lists a user's investments, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Investment, error)

	// FindPayoutCandidates lists active investments whose next payout is due at now.
	FindPayoutCandidates(ctx context.Context, now time.Time) ([]*entity.Investment, error)

	// ApplyDailyReturn persists an investment advanced in memory by one payout.
	// The write only succeeds if the stored days collected still equals previousDays,
	// otherwise domainerror.ErrPayoutConflict is returned.
	ApplyDailyReturn(ctx context.Context, investment *entity.Investment, previousDays int) error
}
