package deposit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// GetDepositStatusInput represents the input for reading a deposit.
type GetDepositStatusInput struct {
	UserID            uuid.UUID
	CheckoutRequestID string
}

// GetDepositStatusOutput represents the output of reading a deposit.
type GetDepositStatusOutput struct {
	Deposit *entity.Deposit
}

// GetDepositStatusUseCase reads a deposit from the store.
type GetDepositStatusUseCase struct {
	depositRepo adapter.DepositRepository
}

// NewGetDepositStatusUseCase creates a new GetDepositStatusUseCase instance.
func NewGetDepositStatusUseCase(depositRepo adapter.DepositRepository) *GetDepositStatusUseCase {
	return &GetDepositStatusUseCase{depositRepo: depositRepo}
}

// Execute reads the deposit.
func (uc *GetDepositStatusUseCase) Execute(ctx context.Context, input GetDepositStatusInput) (*GetDepositStatusOutput, error) {
	deposit, err := findOwnedDeposit(ctx, uc.depositRepo, input.UserID, input.CheckoutRequestID)
	if err != nil {
		return nil, err
	}
	return &GetDepositStatusOutput{Deposit: deposit}, nil
}

func findOwnedDeposit(ctx context.Context, repo adapter.DepositRepository, userID uuid.UUID, checkoutRequestID string) (*entity.Deposit, error) {
	if checkoutRequestID == "" {
		return nil, domainerror.NewDepositError(domainerror.ErrCodeMissingCheckoutID, "CheckoutRequestID is required", nil)
	}

	deposit, err := repo.FindByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDepositNotFound) {
			return nil, depositNotFound()
		}
		return nil, fmt.Errorf("failed to load deposit: %w", err)
	}
	if deposit.UserID != userID {
		return nil, depositNotFound()
	}
	return deposit, nil
}

func depositNotFound() error {
	return domainerror.NewDepositError(domainerror.ErrCodeDepositNotFound, "Transaction not found", domainerror.ErrDepositNotFound)
}
