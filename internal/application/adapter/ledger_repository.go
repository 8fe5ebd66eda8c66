package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// LedgerRepository defines the interface for the append-only balance ledger.
type LedgerRepository interface {
	// Append records a ledger entry.
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// FindByUser lists a user's entries, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LedgerEntry, error)
}
