package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// ledgerRepository implements the adapter.LedgerRepository interface.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(db *gorm.DB) adapter.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append records a ledger entry.
func (r *ledgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return conn(ctx, r.db).Create(model.LedgerEntryFromEntity(entry)).Error
}

// FindByUser lists a user's entries, newest first.
func (r *ledgerRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LedgerEntry, error) {
	var models []model.LedgerEntryModel
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.LedgerEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries, nil
}
