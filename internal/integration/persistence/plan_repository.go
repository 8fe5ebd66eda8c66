package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// planRepository implements the adapter.PlanRepository interface.
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance.
func NewPlanRepository(db *gorm.DB) adapter.PlanRepository {
	return &planRepository{db: db}
}

// ReplaceAll deletes every plan and inserts plans in one transaction.
// Investments keep their copied terms, so removing a plan never affects them.
func (r *planRepository) ReplaceAll(ctx context.Context, plans []*entity.InvestmentPlan) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.InvestmentPlanModel{}).Error; err != nil {
			return err
		}
		if len(plans) == 0 {
			return nil
		}
		models := make([]*model.InvestmentPlanModel, len(plans))
		for i, plan := range plans {
			models[i] = model.InvestmentPlanFromEntity(plan)
		}
		return tx.Create(&models).Error
	})
}

// FindByID retrieves a plan by its ID.
func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InvestmentPlan, error) {
	var planModel model.InvestmentPlanModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&planModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPlanNotFound
		}
		return nil, err
	}
	return planModel.ToEntity(), nil
}

// FindAll lists plans ordered by amount.
func (r *planRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.InvestmentPlan, error) {
	query := conn(ctx, r.db).Order("amount ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var models []model.InvestmentPlanModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]*entity.InvestmentPlan, len(models))
	for i := range models {
		plans[i] = models[i].ToEntity()
	}
	return plans, nil
}

// Count returns the number of stored plans.
func (r *planRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.InvestmentPlanModel{}).Count(&count).Error
	return count, err
}
