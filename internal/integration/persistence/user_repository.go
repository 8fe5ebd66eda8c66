// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// userRepository implements the adapter.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *gorm.DB) adapter.UserRepository {
	return &userRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return conn(ctx, r.db).Create(model.UserFromEntity(user)).Error
}

// FindByID retrieves a user by their ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(conn(ctx, r.db).Where("id = ?", id))
}

// FindByIDForUpdate retrieves a user by ID and locks the row.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// FindByEmail retrieves a user by their email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(conn(ctx, r.db).Where("email = ?", email))
}

// FindByReferralCode retrieves the user owning a referral code.
func (r *userRepository) FindByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	return r.findOne(conn(ctx, r.db).Where("referral_code = ?", code))
}

func (r *userRepository) findOne(query *gorm.DB) (*entity.User, error) {
	var userModel model.UserModel
	if err := query.First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserNotFound
		}
		return nil, err
	}
	return userModel.ToEntity(), nil
}

// FindReferrals lists the users who registered with the given referral code, oldest first.
func (r *userRepository) FindReferrals(ctx context.Context, code string) ([]*entity.User, error) {
	var models []model.UserModel
	if err := conn(ctx, r.db).Where("referred_by = ?", code).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(models))
	for i := range models {
		users[i] = models[i].ToEntity()
	}
	return users, nil
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByReferralCode checks if a referral code is already taken.
func (r *userRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "referral_code = ?", code)
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&model.UserModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementBalance adds delta to the balance in a single UPDATE so concurrent
// credits never overwrite each other.
func (r *userRepository) IncrementBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal, at time.Time) error {
	result := conn(ctx, r.db).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrUserNotFound
	}
	return nil
}
