package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentPlan is a catalog template that investments copy their terms from.
type InvestmentPlan struct {
	ID          uuid.UUID
	Name        string
	Amount      decimal.Decimal
	DailyReturn decimal.Decimal
	Duration    int
	TotalReturn decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvestmentPlan creates an active plan whose total return is dailyReturn × duration.
func NewInvestmentPlan(name string, amount, dailyReturn decimal.Decimal, duration int, now time.Time) *InvestmentPlan {
	return &InvestmentPlan{
		ID:          uuid.New(),
		Name:        name,
		Amount:      amount,
		DailyReturn: dailyReturn,
		Duration:    duration,
		TotalReturn: dailyReturn.Mul(decimal.NewFromInt(int64(duration))),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Terms returns the investment terms carried by this plan.
func (p *InvestmentPlan) Terms() InvestmentTerms {
	planID := p.ID
	return InvestmentTerms{
		PlanID:      &planID,
		PlanName:    p.Name,
		Amount:      p.Amount,
		DailyReturn: p.DailyReturn,
		Duration:    p.Duration,
		TotalReturn: p.TotalReturn,
	}
}

type planSeed struct {
	name        string
	amount      int64
	dailyReturn int64
	duration    int
}

var planCatalog = []planSeed{
	{"Starter", 600, 120, 20},
	{"Basic", 1000, 250, 24},
	{"Standard", 1500, 400, 28},
	{"Bronze", 2000, 600, 32},
	{"Silver", 3000, 850, 36},
	{"Gold", 5000, 1000, 40},
	{"Platinum", 10000, 2500, 44},
	{"Diamond", 15000, 4000, 48},
	{"Premium", 20000, 6000, 52},
	{"Elite", 30000, 9000, 56},
	{"Executive", 40000, 12500, 60},
	{"VIP", 50000, 16000, 64},
}

// DefaultPlanCatalog returns fresh instances of the seeded plan catalog, ordered by amount.
func DefaultPlanCatalog(now time.Time) []*InvestmentPlan {
	plans := make([]*InvestmentPlan, 0, len(planCatalog))
	for _, seed := range planCatalog {
		plans = append(plans, NewInvestmentPlan(
			seed.name,
			decimal.NewFromInt(seed.amount),
			decimal.NewFromInt(seed.dailyReturn),
			seed.duration,
			now,
		))
	}
	return plans
}
