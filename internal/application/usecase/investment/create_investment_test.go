package investment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/application/usecase/investment"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/domain/valueobject"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	userRepo   adapter.UserRepository
	planRepo   adapter.PlanRepository
	ledgerRepo adapter.LedgerRepository
	invRepo    adapter.InvestmentRepository
	create     func(mode valueobject.FundingMode) *investment.CreateInvestmentUseCase
	clock      fixedClock
}

func newFixture(t *testing.T) *fixture {
	db := persistencetest.NewDB(t)
	f := &fixture{
		userRepo:   persistence.NewUserRepository(db),
		planRepo:   persistence.NewPlanRepository(db),
		ledgerRepo: persistence.NewLedgerRepository(db),
		invRepo:    persistence.NewInvestmentRepository(db),
		clock:      fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	txManager := persistence.NewTransactionManager(db)
	propagator := investment.NewCommissionPropagator(f.userRepo, f.ledgerRepo, f.clock)
	f.create = func(mode valueobject.FundingMode) *investment.CreateInvestmentUseCase {
		return investment.NewCreateInvestmentUseCase(txManager, f.userRepo, f.planRepo, f.invRepo, f.ledgerRepo, propagator, f.clock, mode)
	}
	return f
}

func (f *fixture) user(t *testing.T, code string, referredBy string) *entity.User {
	t.Helper()
	var ref *string
	if referredBy != "" {
		ref = &referredBy
	}
	u := entity.NewUser(code, code+"@example.com", "254700000000", "hash", code, ref, f.clock.now)
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return u
}

func (f *fixture) balance(t *testing.T, u *entity.User) string {
	t.Helper()
	stored, err := f.userRepo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	return stored.Balance.StringFixed(2)
}

func customTerms(amount, daily int64, duration int) valueobject.CustomTerms {
	return valueobject.CustomTerms{
		Amount:      decimal.NewFromInt(amount),
		DailyReturn: decimal.NewFromInt(daily),
		Duration:    duration,
	}
}

func TestCreateInvestment_PropagatesThreeLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "AAAA0001", "")
	b := f.user(t, "BBBB0002", a.ReferralCode)
	c := f.user(t, "CCCC0003", b.ReferralCode)
	d := f.user(t, "DDDD0004", c.ReferralCode)

	out, err := f.create(valueobject.FundingModeCredit).Execute(ctx, investment.CreateInvestmentInput{
		UserID: d.ID,
		Source: customTerms(1000, 50, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CustomPlanName, out.Investment.PlanName)
	assert.Equal(t, "500.00", out.Investment.TotalReturn.StringFixed(2))
	require.Len(t, out.Commissions, 3)
	assert.Equal(t, c.ID, out.Commissions[0].RecipientID)
	assert.Equal(t, b.ID, out.Commissions[1].RecipientID)
	assert.Equal(t, a.ID, out.Commissions[2].RecipientID)

	assert.Equal(t, "180.00", f.balance(t, c))
	assert.Equal(t, "50.00", f.balance(t, b))
	assert.Equal(t, "20.00", f.balance(t, a))
	assert.Equal(t, "1000.00", f.balance(t, d))

	entries, err := f.ledgerRepo.FindByUser(ctx, c.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerKindCommission, entries[0].Kind)
	assert.Equal(t, "180.00", entries[0].Amount.StringFixed(2))

	stored, err := f.invRepo.FindByUser(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entity.InvestmentStatusActive, stored[0].Status)
}

func TestCreateInvestment_FourthAncestorIsNotPaid(t *testing.T) {
	f := newFixture(t)
	root := f.user(t, "ROOT0000", "")
	a := f.user(t, "AAAA0001", root.ReferralCode)
	b := f.user(t, "BBBB0002", a.ReferralCode)
	c := f.user(t, "CCCC0003", b.ReferralCode)
	d := f.user(t, "DDDD0004", c.ReferralCode)

	_, err := f.create(valueobject.FundingModeCredit).Execute(context.Background(), investment.CreateInvestmentInput{
		UserID: d.ID,
		Source: customTerms(1000, 50, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, "0.00", f.balance(t, root))
}

func TestCreateInvestment_ShortAndBrokenChains(t *testing.T) {
	t.Run("single referrer", func(t *testing.T) {
		f := newFixture(t)
		a := f.user(t, "AAAA0001", "")
		b := f.user(t, "BBBB0002", a.ReferralCode)

		out, err := f.create(valueobject.FundingModeCredit).Execute(context.Background(), investment.CreateInvestmentInput{
			UserID: b.ID,
			Source: customTerms(1000, 50, 10),
		})
		require.NoError(t, err)

		require.Len(t, out.Commissions, 1)
		assert.Equal(t, 1, out.Commissions[0].Level)
		assert.Equal(t, "180.00", f.balance(t, a))
	})

	t.Run("unknown referral code stops the walk", func(t *testing.T) {
		f := newFixture(t)
		orphan := f.user(t, "ORPH0001", "GONE0000")

		out, err := f.create(valueobject.FundingModeCredit).Execute(context.Background(), investment.CreateInvestmentInput{
			UserID: orphan.ID,
			Source: customTerms(1000, 50, 10),
		})
		require.NoError(t, err)

		assert.Empty(t, out.Commissions)
	})

	t.Run("a referral loop is not paid twice", func(t *testing.T) {
		f := newFixture(t)
		a := f.user(t, "AAAA0001", "CCCC0003")
		b := f.user(t, "BBBB0002", a.ReferralCode)
		c := f.user(t, "CCCC0003", b.ReferralCode)

		out, err := f.create(valueobject.FundingModeCredit).Execute(context.Background(), investment.CreateInvestmentInput{
			UserID: c.ID,
			Source: customTerms(1000, 50, 10),
		})
		require.NoError(t, err)

		require.Len(t, out.Commissions, 2)
		assert.Equal(t, "180.00", f.balance(t, b))
		assert.Equal(t, "50.00", f.balance(t, a))
		assert.Equal(t, "1000.00", f.balance(t, c))
	})
}

func TestCreateInvestment_DebitMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "DEBT0001", "")
	uc := f.create(valueobject.FundingModeDebit)

	_, err := uc.Execute(ctx, investment.CreateInvestmentInput{UserID: u.ID, Source: customTerms(1000, 50, 10)})
	var invErr *domainerror.InvestmentError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, domainerror.ErrCodeInsufficientBalance, invErr.Code)

	require.NoError(t, f.userRepo.IncrementBalance(ctx, u.ID, decimal.NewFromInt(1500), f.clock.now))
	_, err = uc.Execute(ctx, investment.CreateInvestmentInput{UserID: u.ID, Source: customTerms(1000, 50, 10)})
	require.NoError(t, err)

	assert.Equal(t, "500.00", f.balance(t, u))
	entries, err := f.ledgerRepo.FindByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerKindInvestmentDebit, entries[0].Kind)
	assert.Equal(t, "-1000.00", entries[0].Amount.StringFixed(2))
}

func TestCreateInvestment_PlanBased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plans := entity.DefaultPlanCatalog(f.clock.now)
	require.NoError(t, f.planRepo.ReplaceAll(ctx, plans))
	starter := plans[0]
	u := f.user(t, "PLAN0001", "")
	uc := f.create(valueobject.FundingModeCredit)

	_, err := uc.Execute(ctx, investment.CreateInvestmentInput{UserID: u.ID, Source: valueobject.PlanBased{PlanID: starter.ID}})
	var invErr *domainerror.InvestmentError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, domainerror.ErrCodeInsufficientBalance, invErr.Code)

	require.NoError(t, f.userRepo.IncrementBalance(ctx, u.ID, starter.Amount, f.clock.now))
	out, err := uc.Execute(ctx, investment.CreateInvestmentInput{UserID: u.ID, Source: valueobject.PlanBased{PlanID: starter.ID}})
	require.NoError(t, err)

	require.NotNil(t, out.Investment.PlanID)
	assert.Equal(t, starter.ID, *out.Investment.PlanID)
	assert.Equal(t, starter.Name, out.Investment.PlanName)
	assert.Equal(t, starter.Duration, out.Investment.Duration)

	_, err = uc.Execute(ctx, investment.CreateInvestmentInput{UserID: u.ID, Source: valueobject.PlanBased{PlanID: uuid.New()}})
	var planErr *domainerror.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, domainerror.ErrCodePlanNotFound, planErr.Code)
}

func TestCreateInvestment_Validation(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "VALI0001", "")
	uc := f.create(valueobject.FundingModeCredit)

	tests := []struct {
		name   string
		input  investment.CreateInvestmentInput
		expect domainerror.InvestmentErrorCode
	}{
		{"missing source", investment.CreateInvestmentInput{UserID: u.ID}, domainerror.ErrCodeMissingInvestmentSource},
		{"zero duration", investment.CreateInvestmentInput{UserID: u.ID, Source: customTerms(1000, 50, 0)}, domainerror.ErrCodeInvalidInvestmentTerms},
		{"fraction of a cent", investment.CreateInvestmentInput{UserID: u.ID, Source: valueobject.CustomTerms{
			Amount:      decimal.RequireFromString("1000.001"),
			DailyReturn: decimal.NewFromInt(50),
			Duration:    10,
		}}, domainerror.ErrCodeInvalidInvestmentTerms},
		{"unknown investor", investment.CreateInvestmentInput{UserID: uuid.New(), Source: customTerms(1000, 50, 10)}, domainerror.ErrCodeInvestorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			var invErr *domainerror.InvestmentError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, tt.expect, invErr.Code)
		})
	}

	assert.Equal(t, "0.00", f.balance(t, u))
}
