package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// depositRepository implements the adapter.DepositRepository interface.
type depositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository instance.
func NewDepositRepository(db *gorm.DB) adapter.DepositRepository {
	return &depositRepository{db: db}
}

// Create persists a new pending deposit.
func (r *depositRepository) Create(ctx context.Context, deposit *entity.Deposit) error {
	return conn(ctx, r.db).Create(model.DepositFromEntity(deposit)).Error
}

// FindByCheckoutRequestID retrieves a deposit by the gateway checkout request ID.
func (r *depositRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Deposit, error) {
	return r.findOne(conn(ctx, r.db), checkoutRequestID)
}

// FindByCheckoutRequestIDForUpdate retrieves a deposit and locks its row.
func (r *depositRepository) FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (*entity.Deposit, error) {
	return r.findOne(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), checkoutRequestID)
}

func (r *depositRepository) findOne(query *gorm.DB, checkoutRequestID string) (*entity.Deposit, error) {
	var depositModel model.DepositModel
	if err := query.Where("checkout_request_id = ?", checkoutRequestID).First(&depositModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDepositNotFound
		}
		return nil, err
	}
	return depositModel.ToEntity(), nil
}

// Resolve stores the final state of a deposit that is still pending.
func (r *depositRepository) Resolve(ctx context.Context, deposit *entity.Deposit) error {
	depositModel := model.DepositFromEntity(deposit)
	result := conn(ctx, r.db).
		Model(&model.DepositModel{}).
		Where("id = ? AND status = ?", deposit.ID, entity.DepositStatusPending).
		Updates(map[string]any{
			"status":         depositModel.Status,
			"result_code":    depositModel.ResultCode,
			"result_desc":    depositModel.ResultDesc,
			"receipt_number": depositModel.ReceiptNumber,
			"updated_at":     depositModel.UpdatedAt,
			"resolved_at":    depositModel.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrDepositAlreadyResolved
	}
	return nil
}
