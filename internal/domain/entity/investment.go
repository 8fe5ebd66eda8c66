package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// PayoutInterval is the minimum spacing between two daily-return credits.
const PayoutInterval = 24 * time.Hour

// CustomPlanName is the plan name stored for investments created from ad-hoc terms.
const CustomPlanName = "Custom Plan"

// InvestmentStatus represents the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusActive     InvestmentStatus = "active"
	InvestmentStatusCompleted  InvestmentStatus = "completed"
	InvestmentStatusTerminated InvestmentStatus = "terminated"
)

// InvestmentTerms are the economic terms frozen into an investment at creation time.
type InvestmentTerms struct {
	PlanID      *uuid.UUID
	PlanName    string
	Amount      decimal.Decimal
	DailyReturn decimal.Decimal
	Duration    int
	TotalReturn decimal.Decimal
}

// Investment is the stateful ledger entity advanced by the payout scheduler.
//
// Invariants:
//   - DaysCollected never exceeds Duration.
//   - ReturnsCollected == DailyReturn × DaysCollected.
//   - Status moves active -> completed exactly when DaysCollected reaches Duration.
type Investment struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PlanID           *uuid.UUID
	PlanName         string
	Amount           decimal.Decimal
	DailyReturn      decimal.Decimal
	Duration         int
	TotalReturn      decimal.Decimal
	StartDate        time.Time
	EndDate          time.Time
	LastPayoutDate   time.Time
	Status           InvestmentStatus
	ReturnsCollected decimal.Decimal
	DaysCollected    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewInvestment creates an active investment starting at start.
// The first daily return becomes collectable at start itself.
func NewInvestment(userID uuid.UUID, terms InvestmentTerms, start time.Time) *Investment {
	planName := terms.PlanName
	if planName == "" {
		planName = CustomPlanName
	}
	totalReturn := terms.TotalReturn
	if totalReturn.IsZero() {
		totalReturn = terms.DailyReturn.Mul(decimal.NewFromInt(int64(terms.Duration)))
	}

	return &Investment{
		ID:               uuid.New(),
		UserID:           userID,
		PlanID:           terms.PlanID,
		PlanName:         planName,
		Amount:           terms.Amount,
		DailyReturn:      terms.DailyReturn,
		Duration:         terms.Duration,
		TotalReturn:      totalReturn,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, terms.Duration),
		LastPayoutDate:   start.Add(-PayoutInterval),
		Status:           InvestmentStatusActive,
		ReturnsCollected: decimal.Zero,
		DaysCollected:    0,
		CreatedAt:        start,
		UpdatedAt:        start,
	}
}

// NextPayoutAt returns the earliest instant at which the next daily return may be collected.
func (i *Investment) NextPayoutAt() time.Time {
	return i.LastPayoutDate.Add(PayoutInterval)
}

// CanCollectDailyReturn reports whether a daily return may be credited at now.
func (i *Investment) CanCollectDailyReturn(now time.Time) bool {
	if i.Status != InvestmentStatusActive {
		return false
	}
	if i.DaysCollected >= i.Duration {
		return false
	}
	return !now.Before(i.NextPayoutAt())
}

// CollectDailyReturn advances the investment by exactly one day's payout.
func (i *Investment) CollectDailyReturn(now time.Time) error {
	if i.Status != InvestmentStatusActive || i.DaysCollected >= i.Duration {
		return domainerror.ErrInvestmentNotActive
	}
	if now.Before(i.NextPayoutAt()) {
		return domainerror.ErrPayoutNotDue
	}

	i.DaysCollected++
	i.ReturnsCollected = i.ReturnsCollected.Add(i.DailyReturn)
	i.LastPayoutDate = now
	i.UpdatedAt = now
	if i.DaysCollected >= i.Duration {
		i.Status = InvestmentStatusCompleted
	}
	return nil
}

// IsCompleted reports whether every daily return has been paid.
func (i *Investment) IsCompleted() bool {
	return i.Status == InvestmentStatusCompleted
}

// RemainingDays returns the number of payouts still owed.
func (i *Investment) RemainingDays() int {
	if i.DaysCollected >= i.Duration {
		return 0
	}
	return i.Duration - i.DaysCollected
}

// OutstandingReturn returns the amount still to be paid out.
func (i *Investment) OutstandingReturn() decimal.Decimal {
	return i.DailyReturn.Mul(decimal.NewFromInt(int64(i.RemainingDays())))
}
