package deposit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// resolution is a gateway verdict on a pending deposit.
type resolution struct {
	CheckoutRequestID string
	Success           bool
	ResultCode        string
	ResultDesc        string
	ReceiptNumber     string
}

// resolver moves a pending deposit to its final state exactly once.
// Only the call that observes the deposit as pending credits the balance, so
// duplicate callbacks or a callback racing a status query never credit twice.
type resolver struct {
	txManager   adapter.TransactionManager
	depositRepo adapter.DepositRepository
	userRepo    adapter.UserRepository
	creditor    *CreditConfirmedDepositUseCase
	notifier    adapter.Notifier
	clock       adapter.Clock
}

func newResolver(
	txManager adapter.TransactionManager,
	depositRepo adapter.DepositRepository,
	userRepo adapter.UserRepository,
	creditor *CreditConfirmedDepositUseCase,
	notifier adapter.Notifier,
	clock adapter.Clock,
) *resolver {
	return &resolver{
		txManager:   txManager,
		depositRepo: depositRepo,
		userRepo:    userRepo,
		creditor:    creditor,
		notifier:    notifier,
		clock:       clock,
	}
}

// resolve returns the deposit and whether this call performed the transition.
func (r *resolver) resolve(ctx context.Context, res resolution) (*entity.Deposit, bool, error) {
	var (
		deposit      *entity.Deposit
		transitioned bool
	)

	err := r.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = r.depositRepo.FindByCheckoutRequestIDForUpdate(ctx, res.CheckoutRequestID)
		if err != nil {
			return err
		}
		if !deposit.IsPending() {
			return nil
		}

		now := r.clock.Now().UTC()
		if res.Success {
			err = deposit.Complete(res.ResultDesc, res.ReceiptNumber, now)
		} else {
			err = deposit.Fail(res.ResultCode, res.ResultDesc, now)
		}
		if err != nil {
			return err
		}

		if err := r.depositRepo.Resolve(ctx, deposit); err != nil {
			return err
		}

		if res.Success {
			depositID := deposit.ID
			if _, err := r.creditor.Execute(ctx, CreditConfirmedDepositInput{
				UserID:    deposit.UserID,
				Amount:    deposit.Amount,
				DepositID: &depositID,
				Reference: res.ReceiptNumber,
			}); err != nil {
				return err
			}
		}

		transitioned = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrDepositAlreadyResolved) {
			current, findErr := r.depositRepo.FindByCheckoutRequestID(ctx, res.CheckoutRequestID)
			if findErr != nil {
				return nil, false, findErr
			}
			return current, false, nil
		}
		return nil, false, fmt.Errorf("failed to resolve deposit: %w", err)
	}

	if transitioned {
		slog.Info("Deposit resolved",
			"deposit_id", deposit.ID,
			"user_id", deposit.UserID,
			"status", deposit.Status,
			"amount", deposit.Amount.String(),
		)
		if deposit.Status == entity.DepositStatusCompleted {
			r.notifyConfirmed(ctx, deposit)
		}
	}

	return deposit, transitioned, nil
}

func (r *resolver) notifyConfirmed(ctx context.Context, deposit *entity.Deposit) {
	user, err := r.userRepo.FindByID(ctx, deposit.UserID)
	if err != nil {
		slog.Error("Failed to load depositor for notification", "deposit_id", deposit.ID, "error", err)
		return
	}
	if err := r.notifier.QueueDepositConfirmedEmail(ctx, adapter.DepositConfirmedEmailInput{
		UserEmail:     user.Email,
		UserName:      user.Name,
		Amount:        deposit.Amount,
		ReceiptNumber: deposit.ReceiptNumber,
	}); err != nil {
		slog.Error("Failed to queue deposit confirmed email", "deposit_id", deposit.ID, "error", err)
	}
}
