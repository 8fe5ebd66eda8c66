package deposit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/domain/valueobject"
)

const (
	defaultAccountReference = "Natural Surplus"
	transactionDescription  = "Investment Payment"
)

// InitiateDepositInput represents the input for starting an STK push deposit.
type InitiateDepositInput struct {
	UserID           uuid.UUID
	PhoneNumber      string
	Amount           decimal.Decimal
	AccountReference string
}

// InitiateDepositOutput represents the output of starting an STK push deposit.
type InitiateDepositOutput struct {
	Deposit         *entity.Deposit
	CustomerMessage string
}

// InitiateDepositUseCase prompts the customer's phone for payment and records a pending deposit.
type InitiateDepositUseCase struct {
	depositRepo adapter.DepositRepository
	gateway     adapter.PaymentGateway
	clock       adapter.Clock
}

// NewInitiateDepositUseCase creates a new InitiateDepositUseCase instance.
func NewInitiateDepositUseCase(depositRepo adapter.DepositRepository, gateway adapter.PaymentGateway, clock adapter.Clock) *InitiateDepositUseCase {
	return &InitiateDepositUseCase{depositRepo: depositRepo, gateway: gateway, clock: clock}
}

// Execute starts the deposit. The amount is floored to whole shillings.
func (uc *InitiateDepositUseCase) Execute(ctx context.Context, input InitiateDepositInput) (*InitiateDepositOutput, error) {
	amount := input.Amount.Floor()
	if amount.LessThan(decimal.NewFromInt(1)) {
		return nil, domainerror.NewDepositError(
			domainerror.ErrCodeInvalidDepositAmount,
			"Amount must be at least 1",
			domainerror.ErrInvalidDepositAmount,
		)
	}

	phone, err := valueobject.NormalizeMobileNumber(input.PhoneNumber)
	if err != nil {
		return nil, domainerror.NewDepositError(
			domainerror.ErrCodeInvalidPhoneNumber,
			"phone number must be a valid Safaricom number",
			err,
		)
	}

	reference := strings.TrimSpace(input.AccountReference)
	if reference == "" {
		reference = defaultAccountReference
	}

	resp, err := uc.gateway.InitiateSTKPush(ctx, adapter.STKPushRequest{
		PhoneNumber:      phone,
		Amount:           amount.IntPart(),
		AccountReference: reference,
		Description:      transactionDescription,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrGatewayRejected) {
			return nil, domainerror.NewDepositError(domainerror.ErrCodeGatewayRejected, "payment request was rejected", err)
		}
		return nil, domainerror.NewDepositError(domainerror.ErrCodeGatewayUnavailable, "failed to initiate payment", err)
	}
	if resp.ResponseCode != "0" {
		return nil, domainerror.NewDepositError(
			domainerror.ErrCodeGatewayRejected,
			resp.ResponseDescription,
			domainerror.ErrGatewayRejected,
		)
	}

	deposit := entity.NewDeposit(input.UserID, phone, amount, reference, resp.MerchantRequestID, resp.CheckoutRequestID, uc.clock.Now().UTC())
	if err := uc.depositRepo.Create(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	slog.Info("STK push initiated",
		"deposit_id", deposit.ID,
		"user_id", input.UserID,
		"checkout_request_id", deposit.CheckoutRequestID,
		"amount", amount.String(),
	)

	return &InitiateDepositOutput{Deposit: deposit, CustomerMessage: resp.CustomerMessage}, nil
}
