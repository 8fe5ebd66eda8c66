package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// payoutRunRepository implements the adapter.PayoutRunRepository interface.
type payoutRunRepository struct {
	db *gorm.DB
}

// NewPayoutRunRepository creates a new payout run repository instance.
func NewPayoutRunRepository(db *gorm.DB) adapter.PayoutRunRepository {
	return &payoutRunRepository{db: db}
}

func (r *payoutRunRepository) Create(ctx context.Context, run *entity.PayoutRun) error {
	return conn(ctx, r.db).Create(model.PayoutRunFromEntity(run)).Error
}

func (r *payoutRunRepository) Update(ctx context.Context, run *entity.PayoutRun) error {
	return conn(ctx, r.db).Save(model.PayoutRunFromEntity(run)).Error
}

// FindRecent lists the latest runs, newest first.
func (r *payoutRunRepository) FindRecent(ctx context.Context, limit int) ([]*entity.PayoutRun, error) {
	var models []model.PayoutRunModel
	if err := conn(ctx, r.db).Order("started_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	runs := make([]*entity.PayoutRun, len(models))
	for i := range models {
		runs[i] = models[i].ToEntity()
	}
	return runs, nil
}
