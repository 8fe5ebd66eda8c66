package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// SeedPlansResponse represents the result of a plan catalog reset.
type SeedPlansResponse struct {
	Message string         `json:"message"`
	Plans   []PlanResponse `json:"plans"`
}

// PayoutRunResponse represents the audit record of a payout scan.
type PayoutRunResponse struct {
	ID         string          `json:"id"`
	Trigger    string          `json:"trigger"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Scanned    int             `json:"scanned"`
	Credited   int             `json:"credited"`
	Completed  int             `json:"completed"`
	Failed     int             `json:"failed"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	LastError  string          `json:"last_error,omitempty"`
}

// PayoutRunListResponse represents recent payout scans.
type PayoutRunListResponse struct {
	Runs []PayoutRunResponse `json:"runs"`
}

// ToPayoutRunResponse converts a domain PayoutRun entity.
func ToPayoutRunResponse(run *entity.PayoutRun) PayoutRunResponse {
	return PayoutRunResponse{
		ID:         run.ID.String(),
		Trigger:    string(run.Trigger),
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Scanned:    run.Scanned,
		Credited:   run.Credited,
		Completed:  run.Completed,
		Failed:     run.Failed,
		TotalPaid:  run.TotalPaid,
		LastError:  run.LastError,
	}
}

// ToPayoutRunResponses converts a slice of payout runs.
func ToPayoutRunResponses(runs []*entity.PayoutRun) []PayoutRunResponse {
	out := make([]PayoutRunResponse, len(runs))
	for i, run := range runs {
		out[i] = ToPayoutRunResponse(run)
	}
	return out
}
