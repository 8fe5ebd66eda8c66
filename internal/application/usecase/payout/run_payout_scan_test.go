package payout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/application/usecase/payout"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/cache"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu        sync.Mutex
	completed []adapter.InvestmentCompletedEmailInput
}

func (n *recordingNotifier) QueueWelcomeEmail(context.Context, adapter.WelcomeEmailInput) error {
	return nil
}

func (n *recordingNotifier) QueueDepositConfirmedEmail(context.Context, adapter.DepositConfirmedEmailInput) error {
	return nil
}

func (n *recordingNotifier) QueueInvestmentCompletedEmail(_ context.Context, input adapter.InvestmentCompletedEmailInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, input)
	return nil
}

type scanFixture struct {
	userRepo   adapter.UserRepository
	invRepo    adapter.InvestmentRepository
	ledgerRepo adapter.LedgerRepository
	runRepo    adapter.PayoutRunRepository
	clock      *stepClock
	notifier   *recordingNotifier
	redis      *miniredis.Miniredis
	scan       *payout.RunPayoutScanUseCase
}

func newScanFixture(t *testing.T) *scanFixture {
	db := persistencetest.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &scanFixture{
		userRepo:   persistence.NewUserRepository(db),
		invRepo:    persistence.NewInvestmentRepository(db),
		ledgerRepo: persistence.NewLedgerRepository(db),
		runRepo:    persistence.NewPayoutRunRepository(db),
		clock:      &stepClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		notifier:   &recordingNotifier{},
		redis:      mr,
	}
	f.scan = payout.NewRunPayoutScanUseCase(
		persistence.NewTransactionManager(db),
		f.userRepo, f.invRepo, f.ledgerRepo, f.runRepo,
		cache.NewPayoutLock(rdb), f.notifier, f.clock, time.Minute,
	)
	return f
}

func (f *scanFixture) investor(t *testing.T, code string) *entity.User {
	t.Helper()
	u := entity.NewUser("Investor "+code, code+"@example.com", "254700000000", "hash", code, nil, f.clock.Now())
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return u
}

func (f *scanFixture) invest(t *testing.T, owner uuid.UUID, daily int64, duration int) *entity.Investment {
	t.Helper()
	inv := entity.NewInvestment(owner, entity.InvestmentTerms{
		Amount:      decimal.NewFromInt(1000),
		DailyReturn: decimal.NewFromInt(daily),
		Duration:    duration,
	}, f.clock.Now())
	require.NoError(t, f.invRepo.Create(context.Background(), inv))
	return inv
}

func (f *scanFixture) balance(t *testing.T, id uuid.UUID) string {
	t.Helper()
	u, err := f.userRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u.Balance.StringFixed(2)
}

func TestRunPayoutScan_CreditsOncePerInterval(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()
	owner := f.investor(t, "OWNR0001")
	inv := f.invest(t, owner.ID, 50, 2)

	out, err := f.scan.Execute(ctx, payout.RunPayoutScanInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.PayoutTriggerScheduled, out.Run.Trigger)
	assert.Equal(t, entity.PayoutRunStatusCompleted, out.Run.Status)
	assert.Equal(t, 1, out.Run.Credited)
	assert.Equal(t, "50.00", f.balance(t, owner.ID))

	f.clock.Advance(time.Hour)
	out, err = f.scan.Execute(ctx, payout.RunPayoutScanInput{Trigger: entity.PayoutTriggerManual})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Run.Credited)
	assert.Equal(t, "50.00", f.balance(t, owner.ID))

	f.clock.Advance(entity.PayoutInterval)
	out, err = f.scan.Execute(ctx, payout.RunPayoutScanInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Run.Credited)
	assert.Equal(t, 1, out.Run.Completed)
	assert.Equal(t, "100.00", f.balance(t, owner.ID))

	stored, err := f.invRepo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvestmentStatusCompleted, stored.Status)
	assert.Equal(t, 2, stored.DaysCollected)
	assert.Equal(t, "100.00", stored.ReturnsCollected.StringFixed(2))

	require.Len(t, f.notifier.completed, 1)
	assert.Equal(t, owner.Email, f.notifier.completed[0].UserEmail)

	f.clock.Advance(10 * entity.PayoutInterval)
	out, err = f.scan.Execute(ctx, payout.RunPayoutScanInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Run.Scanned)
	assert.Equal(t, "100.00", f.balance(t, owner.ID))

	entries, err := f.ledgerRepo.FindByUser(ctx, owner.ID, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	runs, err := f.runRepo.FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestRunPayoutScan_FailedItemDoesNotStopTheScan(t *testing.T) {
	f := newScanFixture(t)
	ctx := context.Background()
	owner := f.investor(t, "OWNR0001")
	good := f.invest(t, owner.ID, 50, 10)
	orphan := f.invest(t, uuid.New(), 70, 10)

	out, err := f.scan.Execute(ctx, payout.RunPayoutScanInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Run.Scanned)
	assert.Equal(t, 1, out.Run.Credited)
	assert.Equal(t, 1, out.Run.Failed)
	assert.NotEmpty(t, out.Run.LastError)
	assert.Equal(t, "50.00", out.Run.TotalPaid.StringFixed(2))

	stored, err := f.invRepo.FindByID(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.DaysCollected)

	stored, err = f.invRepo.FindByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.DaysCollected)
	assert.True(t, stored.ReturnsCollected.IsZero())
}

func TestRunPayoutScan_LockHeldElsewhere(t *testing.T) {
	f := newScanFixture(t)
	owner := f.investor(t, "OWNR0001")
	f.invest(t, owner.ID, 50, 10)
	require.NoError(t, f.redis.Set(cache.PayoutLockKey, "another-process"))

	_, err := f.scan.Execute(context.Background(), payout.RunPayoutScanInput{})

	var invErr *domainerror.InvestmentError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, domainerror.ErrCodePayoutScanInProgress, invErr.Code)
	assert.Equal(t, "0.00", f.balance(t, owner.ID))

	f.redis.Del(cache.PayoutLockKey)
	_, err = f.scan.Execute(context.Background(), payout.RunPayoutScanInput{})
	require.NoError(t, err)
	assert.Equal(t, "50.00", f.balance(t, owner.ID))
	assert.False(t, f.redis.Exists(cache.PayoutLockKey))
}

func TestRunPayoutScan_NothingIsPaidAfterTheEndDate(t *testing.T) {
	t.Run("a late scan inside the term still pays one day", func(t *testing.T) {
		f := newScanFixture(t)
		ctx := context.Background()
		owner := f.investor(t, "OWNR0001")
		inv := f.invest(t, owner.ID, 50, 2)

		f.clock.Advance(36 * time.Hour)
		out, err := f.scan.Execute(ctx, payout.RunPayoutScanInput{})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Run.Credited)

		f.clock.Advance(5 * entity.PayoutInterval)
		out, err = f.scan.Execute(ctx, payout.RunPayoutScanInput{})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Run.Scanned)
		assert.Equal(t, "50.00", f.balance(t, owner.ID))

		stored, err := f.invRepo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.DaysCollected)
		assert.Equal(t, entity.InvestmentStatusActive, stored.Status)
	})

	t.Run("an investment never scanned before its end date earns nothing", func(t *testing.T) {
		f := newScanFixture(t)
		ctx := context.Background()
		owner := f.investor(t, "OWNR0002")
		inv := f.invest(t, owner.ID, 50, 2)

		f.clock.Advance(5 * entity.PayoutInterval)
		require.True(t, f.clock.Now().After(inv.EndDate))

		for i := 0; i < 2; i++ {
			out, err := f.scan.Execute(ctx, payout.RunPayoutScanInput{})
			require.NoError(t, err)
			assert.Equal(t, 0, out.Run.Credited)
			f.clock.Advance(entity.PayoutInterval)
		}
		assert.Equal(t, "0.00", f.balance(t, owner.ID))
	})
}
