// Package valueobject contains domain value objects for the Natural Surplus platform.
package valueobject

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// InvestmentSource describes where a new investment takes its terms from.
// It is either PlanBased or CustomTerms.
type InvestmentSource interface {
	isInvestmentSource()
}

// PlanBased creates an investment from a catalog plan.
type PlanBased struct {
	PlanID uuid.UUID
}

// CustomTerms creates an investment from caller-supplied terms.
type CustomTerms struct {
	Amount      decimal.Decimal
	DailyReturn decimal.Decimal
	Duration    int
}

func (PlanBased) isInvestmentSource()   {}
func (CustomTerms) isInvestmentSource() {}

// Validate checks that every term is present and positive, and that money terms
// fit the two decimal places balances are stored with.
func (t CustomTerms) Validate() error {
	if !t.Amount.IsPositive() || !t.DailyReturn.IsPositive() || t.Duration < 1 {
		return domainerror.ErrInvalidInvestmentTerms
	}
	if !wholeCents(t.Amount) || !wholeCents(t.DailyReturn) {
		return domainerror.ErrInvalidInvestmentTerms
	}
	return nil
}

func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// TotalReturn returns DailyReturn × Duration.
func (t CustomTerms) TotalReturn() decimal.Decimal {
	return t.DailyReturn.Mul(decimal.NewFromInt(int64(t.Duration)))
}
