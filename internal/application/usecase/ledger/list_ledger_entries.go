// Package ledger contains balance history use cases.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ListLedgerEntriesInput represents the input for listing balance history.
type ListLedgerEntriesInput struct {
	UserID uuid.UUID
	Limit  int
}

// ListLedgerEntriesOutput represents the output of listing balance history.
type ListLedgerEntriesOutput struct {
	Entries []*entity.LedgerEntry
}

// ListLedgerEntriesUseCase lists a user's ledger entries, newest first.
type ListLedgerEntriesUseCase struct {
	ledgerRepo adapter.LedgerRepository
}

// NewListLedgerEntriesUseCase creates a new ListLedgerEntriesUseCase instance.
func NewListLedgerEntriesUseCase(ledgerRepo adapter.LedgerRepository) *ListLedgerEntriesUseCase {
	return &ListLedgerEntriesUseCase{ledgerRepo: ledgerRepo}
}

// Execute lists the entries.
func (uc *ListLedgerEntriesUseCase) Execute(ctx context.Context, input ListLedgerEntriesInput) (*ListLedgerEntriesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := uc.ledgerRepo.FindByUser(ctx, input.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return &ListLedgerEntriesOutput{Entries: entries}, nil
}
