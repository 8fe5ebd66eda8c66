package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/usecase/dashboard"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

// ReferralResponse represents a direct referral on the dashboard.
type ReferralResponse struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// DashboardSummaryResponse aggregates the user's investments and commissions.
type DashboardSummaryResponse struct {
	TotalInvested    decimal.Decimal `json:"total_invested"`
	ReturnsCollected decimal.Decimal `json:"returns_collected"`
	ActiveCount      int             `json:"active_investments"`
	CompletedCount   int             `json:"completed_investments"`
	CommissionEarned decimal.Decimal `json:"commission_earned"`
	ReferralCount    int             `json:"referral_count"`
}

// DashboardResponse represents the account overview.
type DashboardResponse struct {
	User        UserResponse             `json:"user"`
	Investments []InvestmentResponse     `json:"investments"`
	Referrals   []ReferralResponse       `json:"referrals"`
	Summary     DashboardSummaryResponse `json:"summary"`
}

// LedgerEntryResponse represents one balance mutation.
type LedgerEntryResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	InvestmentID *string         `json:"investment_id,omitempty"`
	DepositID    *string         `json:"deposit_id,omitempty"`
	Level        int             `json:"level,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LedgerListResponse represents a page of ledger entries.
type LedgerListResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}

// ToDashboardResponse converts the dashboard use case output.
func ToDashboardResponse(out *dashboard.GetDashboardOutput) DashboardResponse {
	referrals := make([]ReferralResponse, len(out.Referrals))
	for i, r := range out.Referrals {
		referrals[i] = ReferralResponse{Name: r.Name, Email: r.Email, JoinedAt: r.CreatedAt}
	}

	return DashboardResponse{
		User:        ToUserResponse(out.User),
		Investments: ToInvestmentResponses(out.Investments),
		Referrals:   referrals,
		Summary: DashboardSummaryResponse{
			TotalInvested:    out.Summary.TotalInvested,
			ReturnsCollected: out.Summary.ReturnsCollected,
			ActiveCount:      out.Summary.ActiveCount,
			CompletedCount:   out.Summary.CompletedCount,
			CommissionEarned: out.Commission,
			ReferralCount:    len(out.Referrals),
		},
	}
}

// ToLedgerEntryResponses converts ledger entries.
func ToLedgerEntryResponses(entries []*entity.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		resp := LedgerEntryResponse{
			ID:          e.ID.String(),
			Kind:        string(e.Kind),
			Amount:      e.Amount,
			Level:       e.Level,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
		if e.InvestmentID != nil {
			id := e.InvestmentID.String()
			resp.InvestmentID = &id
		}
		if e.DepositID != nil {
			id := e.DepositID.String()
			resp.DepositID = &id
		}
		out[i] = resp
	}
	return out
}
