// Package deposit contains mobile-money deposit use cases.
package deposit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// CreditConfirmedDepositInput represents a gateway-confirmed amount to credit.
type CreditConfirmedDepositInput struct {
	UserID    uuid.UUID
	Amount    decimal.Decimal
	DepositID *uuid.UUID
	Reference string
}

// CreditConfirmedDepositOutput represents the output of crediting a deposit.
type CreditConfirmedDepositOutput struct {
	Entry *entity.LedgerEntry
}

// CreditConfirmedDepositUseCase credits a user's balance with a confirmed deposit.
// When called inside a transaction it joins that transaction.
type CreditConfirmedDepositUseCase struct {
	txManager  adapter.TransactionManager
	userRepo   adapter.UserRepository
	ledgerRepo adapter.LedgerRepository
	clock      adapter.Clock
}

// NewCreditConfirmedDepositUseCase creates a new CreditConfirmedDepositUseCase instance.
func NewCreditConfirmedDepositUseCase(
	txManager adapter.TransactionManager,
	userRepo adapter.UserRepository,
	ledgerRepo adapter.LedgerRepository,
	clock adapter.Clock,
) *CreditConfirmedDepositUseCase {
	return &CreditConfirmedDepositUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		clock:      clock,
	}
}

// Execute increments the balance and appends a deposit ledger entry.
func (uc *CreditConfirmedDepositUseCase) Execute(ctx context.Context, input CreditConfirmedDepositInput) (*CreditConfirmedDepositOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewDepositError(
			domainerror.ErrCodeInvalidCreditAmount,
			"credit amount must be positive",
			domainerror.ErrInvalidCreditAmount,
		)
	}

	now := uc.clock.Now().UTC()
	description := "M-Pesa deposit"
	if input.Reference != "" {
		description += " " + input.Reference
	}

	entry := entity.NewLedgerEntry(input.UserID, entity.LedgerKindDeposit, input.Amount, description, now)
	if input.DepositID != nil {
		entry.ForDeposit(*input.DepositID)
	}

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.IncrementBalance(ctx, input.UserID, input.Amount, now); err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				return domainerror.NewDepositError(domainerror.ErrCodeAccountNotFound, "account not found", err)
			}
			return fmt.Errorf("failed to credit deposit: %w", err)
		}
		if err := uc.ledgerRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to record deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreditConfirmedDepositOutput{Entry: entry}, nil
}
