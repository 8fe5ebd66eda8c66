package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/usecase/investment"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

// PlanResponse represents an investment plan in API responses.
type PlanResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	DailyReturn decimal.Decimal `json:"daily_return"`
	Duration    int             `json:"duration"`
	TotalReturn decimal.Decimal `json:"total_return"`
	Active      bool            `json:"active"`
}

// PlanListResponse represents the plan catalog.
type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// CreateInvestmentRequest creates an investment either from plan_id or from
// the custom amount, daily_return and duration terms.
type CreateInvestmentRequest struct {
	PlanID      *uuid.UUID       `json:"plan_id"`
	Amount      *decimal.Decimal `json:"amount"`
	DailyReturn *decimal.Decimal `json:"daily_return"`
	Duration    *int             `json:"duration"`
}

// InvestmentResponse represents an investment in API responses.
type InvestmentResponse struct {
	ID               string          `json:"id"`
	PlanID           *string         `json:"plan_id,omitempty"`
	PlanName         string          `json:"plan_name"`
	Amount           decimal.Decimal `json:"amount"`
	DailyReturn      decimal.Decimal `json:"daily_return"`
	Duration         int             `json:"duration"`
	TotalReturn      decimal.Decimal `json:"total_return"`
	Status           string          `json:"status"`
	DaysCollected    int             `json:"days_collected"`
	ReturnsCollected decimal.Decimal `json:"returns_collected"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	LastPayoutDate   time.Time       `json:"last_payout_date"`
	NextPayoutAt     *time.Time      `json:"next_payout_at,omitempty"`
}

// CommissionResponse represents one referral commission paid on an investment.
type CommissionResponse struct {
	Level        int             `json:"level"`
	RecipientID  string          `json:"recipient_id"`
	ReferralCode string          `json:"referral_code"`
	Amount       decimal.Decimal `json:"amount"`
}

// CreateInvestmentResponse represents the response to an investment creation.
type CreateInvestmentResponse struct {
	Investment  InvestmentResponse   `json:"investment"`
	Commissions []CommissionResponse `json:"commissions"`
}

// InvestmentListResponse represents a list of investments.
type InvestmentListResponse struct {
	Investments []InvestmentResponse `json:"investments"`
}

// ToPlanResponse converts a domain InvestmentPlan entity to a PlanResponse DTO.
func ToPlanResponse(plan *entity.InvestmentPlan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID.String(),
		Name:        plan.Name,
		Amount:      plan.Amount,
		DailyReturn: plan.DailyReturn,
		Duration:    plan.Duration,
		TotalReturn: plan.TotalReturn,
		Active:      plan.Active,
	}
}

// ToPlanResponses converts a slice of plans.
func ToPlanResponses(plans []*entity.InvestmentPlan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		out[i] = ToPlanResponse(plan)
	}
	return out
}

// ToInvestmentResponse converts a domain Investment entity to an InvestmentResponse DTO.
func ToInvestmentResponse(inv *entity.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:               inv.ID.String(),
		PlanName:         inv.PlanName,
		Amount:           inv.Amount,
		DailyReturn:      inv.DailyReturn,
		Duration:         inv.Duration,
		TotalReturn:      inv.TotalReturn,
		Status:           string(inv.Status),
		DaysCollected:    inv.DaysCollected,
		ReturnsCollected: inv.ReturnsCollected,
		StartDate:        inv.StartDate,
		EndDate:          inv.EndDate,
		LastPayoutDate:   inv.LastPayoutDate,
	}
	if inv.PlanID != nil {
		id := inv.PlanID.String()
		resp.PlanID = &id
	}
	if inv.Status == entity.InvestmentStatusActive {
		next := inv.NextPayoutAt()
		resp.NextPayoutAt = &next
	}
	return resp
}

// ToInvestmentResponses converts a slice of investments.
func ToInvestmentResponses(investments []*entity.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, len(investments))
	for i, inv := range investments {
		out[i] = ToInvestmentResponse(inv)
	}
	return out
}

// ToCommissionResponses converts the commissions paid on a new investment.
func ToCommissionResponses(credits []investment.CommissionCredit) []CommissionResponse {
	out := make([]CommissionResponse, len(credits))
	for i, credit := range credits {
		out[i] = CommissionResponse{
			Level:        credit.Level,
			RecipientID:  credit.RecipientID.String(),
			ReferralCode: credit.ReferralCode,
			Amount:       credit.Amount,
		}
	}
	return out
}
