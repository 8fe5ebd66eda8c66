package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutRunStatus represents the outcome of a payout scan.
type PayoutRunStatus string

const (
	PayoutRunStatusRunning   PayoutRunStatus = "running"
	PayoutRunStatusCompleted PayoutRunStatus = "completed"
	PayoutRunStatusFailed    PayoutRunStatus = "failed"
)

// PayoutTrigger records what started a payout scan.
type PayoutTrigger string

const (
	PayoutTriggerScheduled PayoutTrigger = "scheduled"
	PayoutTriggerManual    PayoutTrigger = "manual"
)

// PayoutRun is the audit record of one payout scan.
type PayoutRun struct {
	ID         uuid.UUID
	Trigger    PayoutTrigger
	Status     PayoutRunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Scanned    int
	Credited   int
	Completed  int
	Failed     int
	TotalPaid  decimal.Decimal
	LastError  string
}

// NewPayoutRun starts a new payout run record.
func NewPayoutRun(trigger PayoutTrigger, now time.Time) *PayoutRun {
	return &PayoutRun{
		ID:        uuid.New(),
		Trigger:   trigger,
		Status:    PayoutRunStatusRunning,
		StartedAt: now,
		TotalPaid: decimal.Zero,
	}
}

// RecordCredit counts a successful daily-return credit.
func (r *PayoutRun) RecordCredit(amount decimal.Decimal, completed bool) {
	r.Credited++
	r.TotalPaid = r.TotalPaid.Add(amount)
	if completed {
		r.Completed++
	}
}

// RecordFailure counts a failed item and keeps the latest error message.
func (r *PayoutRun) RecordFailure(err error) {
	r.Failed++
	if err != nil {
		r.LastError = err.Error()
	}
}

// Finish closes the run. A run fails only when the scan itself could not proceed.
func (r *PayoutRun) Finish(now time.Time, scanErr error) {
	r.FinishedAt = &now
	if scanErr != nil {
		r.Status = PayoutRunStatusFailed
		r.LastError = scanErr.Error()
		return
	}
	r.Status = PayoutRunStatusCompleted
}
