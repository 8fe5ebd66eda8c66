package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryKind classifies a balance mutation.
type LedgerEntryKind string

const (
	LedgerKindDeposit          LedgerEntryKind = "deposit"
	LedgerKindDailyReturn      LedgerEntryKind = "daily_return"
	LedgerKindCommission       LedgerEntryKind = "commission"
	LedgerKindInvestmentCredit LedgerEntryKind = "investment_credit"
	LedgerKindInvestmentDebit  LedgerEntryKind = "investment_debit"
)

// LedgerEntry is an append-only record of one balance mutation.
// Amount is signed: debits are negative.
type LedgerEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Kind         LedgerEntryKind
	Amount       decimal.Decimal
	InvestmentID *uuid.UUID
	DepositID    *uuid.UUID
	SourceUserID *uuid.UUID
	Level        int
	Description  string
	CreatedAt    time.Time
}

// NewLedgerEntry creates a ledger entry for userID.
func NewLedgerEntry(userID uuid.UUID, kind LedgerEntryKind, amount decimal.Decimal, description string, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}
}

// ForInvestment links the entry to an investment.
func (e *LedgerEntry) ForInvestment(id uuid.UUID) *LedgerEntry {
	e.InvestmentID = &id
	return e
}

// ForDeposit links the entry to a deposit.
func (e *LedgerEntry) ForDeposit(id uuid.UUID) *LedgerEntry {
	e.DepositID = &id
	return e
}

// FromReferral records the investor and chain level a commission came from.
func (e *LedgerEntry) FromReferral(sourceUserID uuid.UUID, level int) *LedgerEntry {
	e.SourceUserID = &sourceUserID
	e.Level = level
	return e
}
