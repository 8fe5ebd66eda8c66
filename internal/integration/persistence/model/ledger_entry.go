package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// LedgerEntryModel represents the ledger_entries table in the database.
type LedgerEntryModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_user_created,priority:1"`
	Kind         string          `gorm:"type:varchar(30);not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	InvestmentID *uuid.UUID      `gorm:"type:uuid;index"`
	DepositID    *uuid.UUID      `gorm:"type:uuid;index"`
	SourceUserID *uuid.UUID      `gorm:"type:uuid"`
	Level        int             `gorm:"not null;default:0"`
	Description  string          `gorm:"type:varchar(255)"`
	CreatedAt    time.Time       `gorm:"not null;index:idx_ledger_user_created,priority:2"`
}

// TableName returns the table name for the LedgerEntryModel.
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToEntity converts a LedgerEntryModel to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToEntity() *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:           m.ID,
		UserID:       m.UserID,
		Kind:         entity.LedgerEntryKind(m.Kind),
		Amount:       m.Amount,
		InvestmentID: m.InvestmentID,
		DepositID:    m.DepositID,
		SourceUserID: m.SourceUserID,
		Level:        m.Level,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

// LedgerEntryFromEntity creates a LedgerEntryModel from a domain LedgerEntry entity.
func LedgerEntryFromEntity(entry *entity.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Kind:         string(entry.Kind),
		Amount:       entry.Amount,
		InvestmentID: entry.InvestmentID,
		DepositID:    entry.DepositID,
		SourceUserID: entry.SourceUserID,
		Level:        entry.Level,
		Description:  entry.Description,
		CreatedAt:    entry.CreatedAt,
	}
}
