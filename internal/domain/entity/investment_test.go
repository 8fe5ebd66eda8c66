package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

var start = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func customInvestment(amount, daily int64, duration int) *Investment {
	return NewInvestment(uuid.New(), InvestmentTerms{
		Amount:      decimal.NewFromInt(amount),
		DailyReturn: decimal.NewFromInt(daily),
		Duration:    duration,
	}, start)
}

func TestNewInvestment(t *testing.T) {
	inv := customInvestment(1000, 50, 10)

	assert.Equal(t, CustomPlanName, inv.PlanName)
	assert.Nil(t, inv.PlanID)
	assert.True(t, inv.TotalReturn.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, InvestmentStatusActive, inv.Status)
	assert.Equal(t, start.AddDate(0, 0, 10), inv.EndDate)
	assert.Equal(t, start, inv.NextPayoutAt())
	assert.True(t, inv.CanCollectDailyReturn(start))
}

func TestNewInvestment_FromPlanKeepsPlanTerms(t *testing.T) {
	plan := NewInvestmentPlan("Gold", decimal.NewFromInt(5000), decimal.NewFromInt(1000), 40, start)

	inv := NewInvestment(uuid.New(), plan.Terms(), start)

	require.NotNil(t, inv.PlanID)
	assert.Equal(t, plan.ID, *inv.PlanID)
	assert.Equal(t, "Gold", inv.PlanName)
	assert.True(t, inv.TotalReturn.Equal(decimal.NewFromInt(40000)))
}

func TestInvestment_CollectDailyReturn(t *testing.T) {
	t.Run("runs to completion one day at a time", func(t *testing.T) {
		inv := customInvestment(1000, 50, 10)
		now := start

		for day := 1; day <= 10; day++ {
			require.True(t, inv.CanCollectDailyReturn(now), "day %d", day)
			require.NoError(t, inv.CollectDailyReturn(now))

			assert.Equal(t, day, inv.DaysCollected)
			assert.True(t, inv.ReturnsCollected.Equal(inv.DailyReturn.Mul(decimal.NewFromInt(int64(day)))))
			now = now.Add(PayoutInterval)
		}

		assert.True(t, inv.IsCompleted())
		assert.True(t, inv.ReturnsCollected.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, 0, inv.RemainingDays())
		assert.True(t, inv.OutstandingReturn().IsZero())
		assert.False(t, inv.CanCollectDailyReturn(now))
		assert.ErrorIs(t, inv.CollectDailyReturn(now), domainerror.ErrInvestmentNotActive)
	})

	t.Run("rejects a second credit inside the interval", func(t *testing.T) {
		inv := customInvestment(1000, 50, 10)
		require.NoError(t, inv.CollectDailyReturn(start))

		later := start.Add(PayoutInterval - time.Minute)
		assert.False(t, inv.CanCollectDailyReturn(later))
		assert.ErrorIs(t, inv.CollectDailyReturn(later), domainerror.ErrPayoutNotDue)
		assert.Equal(t, 1, inv.DaysCollected)
	})

	t.Run("credits once per call after a long gap", func(t *testing.T) {
		inv := customInvestment(1000, 50, 10)
		require.NoError(t, inv.CollectDailyReturn(start))

		muchLater := start.Add(5 * PayoutInterval)
		require.NoError(t, inv.CollectDailyReturn(muchLater))

		assert.Equal(t, 2, inv.DaysCollected)
		assert.Equal(t, muchLater, inv.LastPayoutDate)
		assert.True(t, inv.OutstandingReturn().Equal(decimal.NewFromInt(400)))
	})

	t.Run("terminated investments are never credited", func(t *testing.T) {
		inv := customInvestment(1000, 50, 10)
		inv.Status = InvestmentStatusTerminated

		assert.False(t, inv.CanCollectDailyReturn(start))
		assert.ErrorIs(t, inv.CollectDailyReturn(start), domainerror.ErrInvestmentNotActive)
	})
}
