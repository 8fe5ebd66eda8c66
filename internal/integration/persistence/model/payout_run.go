package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// PayoutRunModel represents the payout_runs table in the database.
type PayoutRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Trigger    string    `gorm:"column:run_trigger;type:varchar(20);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt *time.Time
	Scanned    int             `gorm:"not null;default:0"`
	Credited   int             `gorm:"not null;default:0"`
	Completed  int             `gorm:"not null;default:0"`
	Failed     int             `gorm:"not null;default:0"`
	TotalPaid  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LastError  string          `gorm:"type:text"`
}

// TableName returns the table name for the PayoutRunModel.
func (PayoutRunModel) TableName() string {
	return "payout_runs"
}

// ToEntity converts a PayoutRunModel to a domain PayoutRun entity.
func (m *PayoutRunModel) ToEntity() *entity.PayoutRun {
	return &entity.PayoutRun{
		ID:         m.ID,
		Trigger:    entity.PayoutTrigger(m.Trigger),
		Status:     entity.PayoutRunStatus(m.Status),
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Scanned:    m.Scanned,
		Credited:   m.Credited,
		Completed:  m.Completed,
		Failed:     m.Failed,
		TotalPaid:  m.TotalPaid,
		LastError:  m.LastError,
	}
}

// PayoutRunFromEntity creates a PayoutRunModel from a domain PayoutRun entity.
func PayoutRunFromEntity(run *entity.PayoutRun) *PayoutRunModel {
	return &PayoutRunModel{
		ID:         run.ID,
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
