package valueobject

import "github.com/shopspring/decimal"

// CommissionLevel is one rung of the referral commission ladder.
type CommissionLevel struct {
	Level int
	Rate  decimal.Decimal
}

// Amount returns the commission owed on invested, rounded to cents.
func (l CommissionLevel) Amount(invested decimal.Decimal) decimal.Decimal {
	return invested.Mul(l.Rate).Round(2)
}

// CommissionSchedule returns the ladder paid up the referral chain,
// nearest referrer first: 18%, 5%, 2%.
func CommissionSchedule() []CommissionLevel {
	return []CommissionLevel{
		{Level: 1, Rate: decimal.NewFromFloat(0.18)},
		{Level: 2, Rate: decimal.NewFromFloat(0.05)},
		{Level: 3, Rate: decimal.NewFromFloat(0.02)},
	}
}
