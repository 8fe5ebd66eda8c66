package deposit

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// HandleCallbackInput is the gateway's asynchronous STK push result.
type HandleCallbackInput struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            decimal.Decimal
	ReceiptNumber     string
	PhoneNumber       string
}

// HandleCallbackOutput represents the output of handling a gateway callback.
type HandleCallbackOutput struct {
	Deposit      *entity.Deposit
	Transitioned bool
}

// HandleCallbackUseCase resolves a deposit from a gateway callback.
type HandleCallbackUseCase struct {
	resolver *resolver
}

// NewHandleCallbackUseCase creates a new HandleCallbackUseCase instance.
func NewHandleCallbackUseCase(
	txManager adapter.TransactionManager,
	depositRepo adapter.DepositRepository,
	userRepo adapter.UserRepository,
	creditor *CreditConfirmedDepositUseCase,
	notifier adapter.Notifier,
	clock adapter.Clock,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		resolver: newResolver(txManager, depositRepo, userRepo, creditor, notifier, clock),
	}
}

// Execute resolves the deposit named by the callback. Callbacks for unknown
// checkout requests are logged and ignored.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, input HandleCallbackInput) (*HandleCallbackOutput, error) {
	if input.CheckoutRequestID == "" {
		return nil, domainerror.NewDepositError(domainerror.ErrCodeInvalidCallback, "callback is missing CheckoutRequestID", domainerror.ErrInvalidCallback)
	}

	deposit, transitioned, err := uc.resolver.resolve(ctx, resolution{
		CheckoutRequestID: input.CheckoutRequestID,
		Success:           input.ResultCode == 0,
		ResultCode:        strconv.Itoa(input.ResultCode),
		ResultDesc:        input.ResultDesc,
		ReceiptNumber:     input.ReceiptNumber,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrDepositNotFound) {
			slog.Warn("Callback for unknown checkout request", "checkout_request_id", input.CheckoutRequestID)
			return &HandleCallbackOutput{}, nil
		}
		return nil, err
	}

	if transitioned && input.ResultCode == 0 && !input.Amount.IsZero() && !input.Amount.Equal(deposit.Amount) {
		slog.Warn("Callback amount differs from requested amount",
			"deposit_id", deposit.ID,
			"requested", deposit.Amount.String(),
			"reported", input.Amount.String(),
		)
	}

	return &HandleCallbackOutput{Deposit: deposit, Transitioned: transitioned}, nil
}
