// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user in the database.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIDForUpdate retrieves a user and locks the row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByReferralCode retrieves the user owning a referral code.
	FindByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// FindReferrals lists the users who registered with the given referral code.
	FindReferrals(ctx context.Context, code string) ([]*entity.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByReferralCode checks if a referral code is already taken.
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)

	// IncrementBalance atomically adds delta (which may be negative) to a user's balance
	// and stamps updated_at with at.
	IncrementBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal, at time.Time) error
}
