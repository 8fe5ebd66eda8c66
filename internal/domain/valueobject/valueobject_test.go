package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

func TestNormalizeMobileNumber(t *testing.T) {
	valid := map[string]string{
		"0712345678":        "254712345678",
		"+254712345678":     "254712345678",
		"254712345678":      "254712345678",
		"712345678":         "254712345678",
		"0112 345 678":      "254112345678",
		"(+254) 712-345678": "254712345678",
	}
	for raw, want := range valid {
		got, err := NormalizeMobileNumber(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "12345", "0812345678", "25471234567", "07123456789", "07l2345678"} {
		_, err := NormalizeMobileNumber(raw)
		assert.ErrorIs(t, err, domainerror.ErrInvalidPhoneNumber, raw)
	}
}

func TestCommissionSchedule(t *testing.T) {
	schedule := CommissionSchedule()
	require.Len(t, schedule, 3)

	invested := decimal.NewFromInt(1000)
	want := []int64{180, 50, 20}
	for i, level := range schedule {
		assert.Equal(t, i+1, level.Level)
		assert.True(t, level.Amount(invested).Equal(decimal.NewFromInt(want[i])), "level %d", level.Level)
	}
}

func TestCommissionLevel_AmountRoundsToCents(t *testing.T) {
	level := CommissionSchedule()[0]

	assert.Equal(t, "60.48", level.Amount(decimal.RequireFromString("336")).StringFixed(2))
	assert.Equal(t, "0.02", level.Amount(decimal.RequireFromString("0.1")).StringFixed(2))
}

func TestCustomTerms(t *testing.T) {
	terms := CustomTerms{
		Amount:      decimal.NewFromInt(1000),
		DailyReturn: decimal.NewFromInt(50),
		Duration:    10,
	}
	require.NoError(t, terms.Validate())
	assert.True(t, terms.TotalReturn().Equal(decimal.NewFromInt(500)))

	cents := CustomTerms{
		Amount:      decimal.RequireFromString("999.50"),
		DailyReturn: decimal.RequireFromString("12.500"),
		Duration:    3,
	}
	require.NoError(t, cents.Validate())

	invalid := []CustomTerms{
		{Amount: decimal.Zero, DailyReturn: decimal.NewFromInt(50), Duration: 10},
		{Amount: decimal.NewFromInt(1000), DailyReturn: decimal.NewFromInt(-1), Duration: 10},
		{Amount: decimal.NewFromInt(1000), DailyReturn: decimal.NewFromInt(50), Duration: 0},
		{Amount: decimal.RequireFromString("1000.005"), DailyReturn: decimal.NewFromInt(50), Duration: 10},
		{Amount: decimal.NewFromInt(1000), DailyReturn: decimal.RequireFromString("33.333"), Duration: 10},
	}
	for _, terms := range invalid {
		assert.ErrorIs(t, terms.Validate(), domainerror.ErrInvalidInvestmentTerms)
	}
}

func TestParseFundingMode(t *testing.T) {
	mode, err := ParseFundingMode(" Debit ")
	require.NoError(t, err)
	assert.Equal(t, FundingModeDebit, mode)

	mode, err = ParseFundingMode("credit")
	require.NoError(t, err)
	assert.Equal(t, FundingModeCredit, mode)

	_, err = ParseFundingMode("loan")
	assert.Error(t, err)
}
