package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/usecase/dashboard"
	"github.com/natural-surplus/backend/internal/domain/entity"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// dashboardRepository implements the dashboard.DashboardRepository interface.
type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository instance.
func NewDashboardRepository(db *gorm.DB) dashboard.DashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

// GetInvestmentSummary aggregates a user's investments.
func (r *dashboardRepository) GetInvestmentSummary(ctx context.Context, userID uuid.UUID) (*dashboard.InvestmentSummary, error) {
	var result struct {
		TotalInvested    decimal.NullDecimal `gorm:"column:total_invested"`
		ReturnsCollected decimal.NullDecimal `gorm:"column:returns_collected"`
		ActiveCount      int                 `gorm:"column:active_count"`
		CompletedCount   int                 `gorm:"column:completed_count"`
	}

	err := conn(ctx, r.db).
		Model(&model.InvestmentModel{}).
		Select(
			"SUM(amount) AS total_invested, "+
				"SUM(returns_collected) AS returns_collected, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active_count, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_count",
			entity.InvestmentStatusActive, entity.InvestmentStatusCompleted,
		).
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise investments: %w", err)
	}

	return &dashboard.InvestmentSummary{
		TotalInvested:    orZero(result.TotalInvested),
		ReturnsCollected: orZero(result.ReturnsCollected),
		ActiveCount:      result.ActiveCount,
		CompletedCount:   result.CompletedCount,
	}, nil
}

// GetCommissionEarned sums the referral commissions credited to a user.
func (r *dashboardRepository) GetCommissionEarned(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := conn(ctx, r.db).
		Model(&model.LedgerEntryModel{}).
		Select("SUM(amount)").
		Where("user_id = ? AND kind = ?", userID, entity.LedgerKindCommission).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum commissions: %w", err)
	}
	return orZero(total), nil
}

func orZero(value decimal.NullDecimal) decimal.Decimal {
	if !value.Valid {
		return decimal.Zero
	}
	return value.Decimal
}
