package deposit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// QueryDepositStatusInput represents the input for asking the gateway about a deposit.
type QueryDepositStatusInput struct {
	UserID            uuid.UUID
	CheckoutRequestID string
}

// QueryDepositStatusOutput represents the output of asking the gateway about a deposit.
type QueryDepositStatusOutput struct {
	Deposit    *entity.Deposit
	ResultCode string
	ResultDesc string
}

// QueryDepositStatusUseCase asks the gateway for a pending deposit's outcome and resolves it.
type QueryDepositStatusUseCase struct {
	depositRepo adapter.DepositRepository
	gateway     adapter.PaymentGateway
	resolver    *resolver
}

// NewQueryDepositStatusUseCase creates a new QueryDepositStatusUseCase instance.
func NewQueryDepositStatusUseCase(
	txManager adapter.TransactionManager,
	depositRepo adapter.DepositRepository,
	userRepo adapter.UserRepository,
	gateway adapter.PaymentGateway,
	creditor *CreditConfirmedDepositUseCase,
	notifier adapter.Notifier,
	clock adapter.Clock,
) *QueryDepositStatusUseCase {
	return &QueryDepositStatusUseCase{
		depositRepo: depositRepo,
		gateway:     gateway,
		resolver:    newResolver(txManager, depositRepo, userRepo, creditor, notifier, clock),
	}
}

// Execute queries the gateway. Deposits already resolved are returned unchanged.
func (uc *QueryDepositStatusUseCase) Execute(ctx context.Context, input QueryDepositStatusInput) (*QueryDepositStatusOutput, error) {
	deposit, err := findOwnedDeposit(ctx, uc.depositRepo, input.UserID, input.CheckoutRequestID)
	if err != nil {
		return nil, err
	}
	if !deposit.IsPending() {
		return &QueryDepositStatusOutput{Deposit: deposit, ResultCode: deposit.ResultCode, ResultDesc: deposit.ResultDesc}, nil
	}

	result, err := uc.gateway.QuerySTKPush(ctx, deposit.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, domainerror.ErrGatewayRejected) {
			return nil, domainerror.NewDepositError(domainerror.ErrCodeGatewayRejected, "payment status is not available yet", err)
		}
		return nil, domainerror.NewDepositError(domainerror.ErrCodeGatewayUnavailable, "failed to query payment status", err)
	}

	resolved, _, err := uc.resolver.resolve(ctx, resolution{
		CheckoutRequestID: deposit.CheckoutRequestID,
		Success:           result.ResultCode == "0",
		ResultCode:        result.ResultCode,
		ResultDesc:        result.ResultDesc,
	})
	if err != nil {
		return nil, err
	}

	return &QueryDepositStatusOutput{Deposit: resolved, ResultCode: result.ResultCode, ResultDesc: result.ResultDesc}, nil
}
