package adapter

import (
	"context"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// DepositRepository defines the interface for mobile-money deposit persistence.
type DepositRepository interface {
	// Create persists a new pending deposit.
	Create(ctx context.Context, deposit *entity.Deposit) error

	// FindByCheckoutRequestID retrieves a deposit by the gateway checkout request ID.
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Deposit, error)

	// FindByCheckoutRequestIDForUpdate is FindByCheckoutRequestID with a row lock held
	// until the surrounding transaction ends.
	FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (*entity.Deposit, error)

	// Resolve stores the final state of a deposit. It only updates rows still pending
	// and returns domainerror.ErrDepositAlreadyResolved otherwise.
	Resolve(ctx context.Context, deposit *entity.Deposit) error
}
