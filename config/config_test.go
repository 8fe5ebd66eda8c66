package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, time.Hour, cfg.Payout.Interval)
	assert.Equal(t, time.Second, cfg.Payout.FirstRunDelay)
	assert.Equal(t, mpesaSandboxURL, cfg.Mpesa.BaseURL)

	mode, err := cfg.FundingMode()
	require.NoError(t, err)
	assert.Equal(t, valueobject.FundingModeCredit, mode)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PAYOUT_INTERVAL", "15m")
	t.Setenv("INVESTMENT_FUNDING_MODE", "DEBIT")
	t.Setenv("MPESA_ENVIRONMENT", "production")
	t.Setenv("MPESA_CALLBACK_ALLOWED_CIDRS", "196.201.214.0/24, ,196.201.213.114/32")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.Payout.Interval)
	assert.Equal(t, mpesaProductionURL, cfg.Mpesa.BaseURL)
	assert.Equal(t, []string{"196.201.214.0/24", "196.201.213.114/32"}, cfg.Mpesa.AllowedCallbackIPs)
	assert.Equal(t, 8080, cfg.Server.Port, "unparsable values fall back to the default")

	mode, err := cfg.FundingMode()
	require.NoError(t, err)
	assert.Equal(t, valueobject.FundingModeDebit, mode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown funding mode",
			mutate:  func(c *Config) { c.Investment.FundingMode = "borrow" },
			wantErr: "INVESTMENT_FUNDING_MODE",
		},
		{
			name:    "zero payout interval",
			mutate:  func(c *Config) { c.Payout.Interval = 0 },
			wantErr: "PAYOUT_INTERVAL",
		},
		{
			name: "production with default secret",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Mpesa.CallbackURL = "https://api.example.test/callback"
			},
			wantErr: "JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
