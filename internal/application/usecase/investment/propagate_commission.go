// Package investment contains investment and referral commission use cases.
package investment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/domain/valueobject"
)

// CommissionCredit records one commission paid to an ancestor referrer.
type CommissionCredit struct {
	Level        int
	RecipientID  uuid.UUID
	ReferralCode string
	Amount       decimal.Decimal
}

// CommissionPropagator credits the referral chain above an investor.
type CommissionPropagator struct {
	userRepo   adapter.UserRepository
	ledgerRepo adapter.LedgerRepository
	clock      adapter.Clock
	schedule   []valueobject.CommissionLevel
}

// NewCommissionPropagator creates a propagator using the standard commission schedule.
func NewCommissionPropagator(
	userRepo adapter.UserRepository,
	ledgerRepo adapter.LedgerRepository,
	clock adapter.Clock,
) *CommissionPropagator {
	return &CommissionPropagator{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		clock:      clock,
		schedule:   valueobject.CommissionSchedule(),
	}
}

// Propagate walks up to len(schedule) referrers above investor and credits each one its
// share of amount. The walk stops quietly at the first code that is missing or does not
// resolve. Callers run it inside the investment's transaction.
func (p *CommissionPropagator) Propagate(ctx context.Context, investor *entity.User, investmentID uuid.UUID, amount decimal.Decimal) ([]CommissionCredit, error) {
	credits := make([]CommissionCredit, 0, len(p.schedule))
	visited := map[uuid.UUID]bool{investor.ID: true}
	now := p.clock.Now().UTC()

	current := investor
	for _, level := range p.schedule {
		if !current.HasReferrer() {
			break
		}

		referrer, err := p.userRepo.FindByReferralCode(ctx, *current.ReferredBy)
		if err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				break
			}
			return nil, fmt.Errorf("failed to resolve referrer at level %d: %w", level.Level, err)
		}
		if visited[referrer.ID] {
			break
		}
		visited[referrer.ID] = true

		commission := level.Amount(amount)
		if commission.IsPositive() {
			if err := p.userRepo.IncrementBalance(ctx, referrer.ID, commission, now); err != nil {
				return nil, fmt.Errorf("failed to credit level %d commission: %w", level.Level, err)
			}

			entry := entity.NewLedgerEntry(
				referrer.ID,
				entity.LedgerKindCommission,
				commission,
				fmt.Sprintf("Level %d referral commission", level.Level),
				now,
			).ForInvestment(investmentID).FromReferral(investor.ID, level.Level)
			if err := p.ledgerRepo.Append(ctx, entry); err != nil {
				return nil, fmt.Errorf("failed to record level %d commission: %w", level.Level, err)
			}

			credits = append(credits, CommissionCredit{
				Level:        level.Level,
				RecipientID:  referrer.ID,
				ReferralCode: referrer.ReferralCode,
				Amount:       commission,
			})
		}

		current = referrer
	}

	return credits, nil
}
