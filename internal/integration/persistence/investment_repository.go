package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// investmentRepository implements the adapter.InvestmentRepository interface.
type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository instance.
func NewInvestmentRepository(db *gorm.DB) adapter.InvestmentRepository {
	return &investmentRepository{db: db}
}

// Create persists a new investment.
func (r *investmentRepository) Create(ctx context.Context, investment *entity.Investment) error {
	return conn(ctx, r.db).Create(model.InvestmentFromEntity(investment)).Error
}

// FindByID retrieves an investment by its ID.
func (r *investmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Investment, error) {
	var investmentModel model.InvestmentModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&investmentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvestmentNotFound
		}
		return nil, err
	}
	return investmentModel.ToEntity(), nil
}

// FindByUser lists a user's investments, newest first.
func (r *investmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Investment, error) {
	var models []model.InvestmentModel
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return investmentsFromModels(models), nil
}

// FindPayoutCandidates lists active, unfinished investments that have not reached their
// end date and whose last payout is at least one payout interval before now.
// Days missed before the end date are forfeited, not paid out afterwards.
func (r *investmentRepository) FindPayoutCandidates(ctx context.Context, now time.Time) ([]*entity.Investment, error) {
	now = now.UTC()
	var models []model.InvestmentModel
	err := conn(ctx, r.db).
		Where("status = ?", entity.InvestmentStatusActive).
		Where("days_collected < duration").
		Where("end_date >= ?", now).
		Where("last_payout_date <= ?", now.Add(-entity.PayoutInterval)).
		Order("last_payout_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return investmentsFromModels(models), nil
}

// ApplyDailyReturn writes the collection state guarded by a compare-and-set on days_collected.
func (r *investmentRepository) ApplyDailyReturn(ctx context.Context, investment *entity.Investment, previousDays int) error {
	result := conn(ctx, r.db).
		Model(&model.InvestmentModel{}).
		Where("id = ? AND days_collected = ? AND status = ?", investment.ID, previousDays, entity.InvestmentStatusActive).
		Updates(map[string]any{
			"days_collected":    investment.DaysCollected,
			"returns_collected": investment.ReturnsCollected,
			"last_payout_date":  investment.LastPayoutDate,
			"status":            string(investment.Status),
			"updated_at":        investment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPayoutConflict
	}
	return nil
}

func investmentsFromModels(models []model.InvestmentModel) []*entity.Investment {
	investments := make([]*entity.Investment, len(models))
	for i := range models {
		investments[i] = models[i].ToEntity()
	}
	return investments
}
