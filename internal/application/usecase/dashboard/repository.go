// Package dashboard contains account overview use cases.
package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardRepository defines the aggregate queries behind the account overview.
type DashboardRepository interface {
	// GetInvestmentSummary aggregates a user's investments.
	GetInvestmentSummary(ctx context.Context, userID uuid.UUID) (*InvestmentSummary, error)

	// GetCommissionEarned sums the referral commissions credited to a user.
	GetCommissionEarned(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// InvestmentSummary aggregates a user's investments.
type InvestmentSummary struct {
	TotalInvested    decimal.Decimal
	ReturnsCollected decimal.Decimal
	ActiveCount      int
	CompletedCount   int
}
