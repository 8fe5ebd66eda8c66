// Package payout contains the daily-return payout use cases.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// RunPayoutScanInput represents the input for a payout scan.
type RunPayoutScanInput struct {
	Trigger entity.PayoutTrigger
}

// RunPayoutScanOutput represents the output of a payout scan.
type RunPayoutScanOutput struct {
	Run *entity.PayoutRun
}

// RunPayoutScanUseCase credits one daily return to every investment that is due.
//
// Each investment is credited in its own transaction: the investment row is advanced
// with a compare-and-set on days collected, the owner balance is incremented and a
// ledger entry is appended. A failing item is logged and counted, and the scan moves on.
type RunPayoutScanUseCase struct {
	txManager      adapter.TransactionManager
	userRepo       adapter.UserRepository
	investmentRepo adapter.InvestmentRepository
	ledgerRepo     adapter.LedgerRepository
	runRepo        adapter.PayoutRunRepository
	lock           adapter.PayoutLock
	notifier       adapter.Notifier
	clock          adapter.Clock
	lockTTL        time.Duration
}

// NewRunPayoutScanUseCase creates a new RunPayoutScanUseCase instance.
func NewRunPayoutScanUseCase(
	txManager adapter.TransactionManager,
	userRepo adapter.UserRepository,
	investmentRepo adapter.InvestmentRepository,
	ledgerRepo adapter.LedgerRepository,
	runRepo adapter.PayoutRunRepository,
	lock adapter.PayoutLock,
	notifier adapter.Notifier,
	clock adapter.Clock,
	lockTTL time.Duration,
) *RunPayoutScanUseCase {
	return &RunPayoutScanUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		ledgerRepo:     ledgerRepo,
		runRepo:        runRepo,
		lock:           lock,
		notifier:       notifier,
		clock:          clock,
		lockTTL:        lockTTL,
	}
}

// Execute runs one payout scan.
func (uc *RunPayoutScanUseCase) Execute(ctx context.Context, input RunPayoutScanInput) (*RunPayoutScanOutput, error) {
	release, acquired, err := uc.lock.Acquire(ctx, uc.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire payout lock: %w", err)
	}
	if !acquired {
		return nil, domainerror.NewInvestmentError(
			domainerror.ErrCodePayoutScanInProgress,
			"a payout scan is already running",
			domainerror.ErrPayoutScanInProgress,
		)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release payout lock", "error", err)
		}
	}()

	// One instant for the whole scan, so every candidate is judged against the same clock.
	now := uc.clock.Now().UTC()

	trigger := input.Trigger
	if trigger == "" {
		trigger = entity.PayoutTriggerScheduled
	}
	run := entity.NewPayoutRun(trigger, now)
	if err := uc.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record payout run: %w", err)
	}

	scanErr := uc.scan(ctx, run, now)

	run.Finish(uc.clock.Now().UTC(), scanErr)
	if err := uc.runRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		slog.Error("Failed to update payout run", "run_id", run.ID, "error", err)
	}

	slog.Info("Payout scan finished",
		"run_id", run.ID,
		"trigger", run.Trigger,
		"scanned", run.Scanned,
		"credited", run.Credited,
		"completed", run.Completed,
		"failed", run.Failed,
		"total_paid", run.TotalPaid.String(),
	)

	if scanErr != nil {
		return &RunPayoutScanOutput{Run: run}, fmt.Errorf("payout scan aborted: %w", scanErr)
	}
	return &RunPayoutScanOutput{Run: run}, nil
}

func (uc *RunPayoutScanUseCase) scan(ctx context.Context, run *entity.PayoutRun, now time.Time) error {
	candidates, err := uc.investmentRepo.FindPayoutCandidates(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load payout candidates: %w", err)
	}

	for _, investment := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		run.Scanned++
		if !investment.CanCollectDailyReturn(now) {
			continue
		}

		if err := uc.credit(ctx, investment, now); err != nil {
			if errors.Is(err, domainerror.ErrPayoutConflict) {
				slog.Warn("Investment already advanced by another writer", "investment_id", investment.ID)
				continue
			}
			run.RecordFailure(err)
			slog.Error("Failed to credit daily return",
				"investment_id", investment.ID,
				"user_id", investment.UserID,
				"error", err,
			)
			continue
		}

		run.RecordCredit(investment.DailyReturn, investment.IsCompleted())
		if investment.IsCompleted() {
			uc.notifyCompleted(ctx, investment)
		}
	}
	return nil
}

// credit applies one daily return as a single atomic unit.
func (uc *RunPayoutScanUseCase) credit(ctx context.Context, investment *entity.Investment, now time.Time) error {
	return uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		previousDays := investment.DaysCollected
		if err := investment.CollectDailyReturn(now); err != nil {
			return err
		}

		if err := uc.investmentRepo.ApplyDailyReturn(ctx, investment, previousDays); err != nil {
			return err
		}

		if err := uc.userRepo.IncrementBalance(ctx, investment.UserID, investment.DailyReturn, now); err != nil {
			return fmt.Errorf("failed to credit owner balance: %w", err)
		}

		entry := entity.NewLedgerEntry(
			investment.UserID,
			entity.LedgerKindDailyReturn,
			investment.DailyReturn,
			fmt.Sprintf("%s daily return (day %d of %d)", investment.PlanName, investment.DaysCollected, investment.Duration),
			now,
		).ForInvestment(investment.ID)
		if err := uc.ledgerRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to record daily return: %w", err)
		}
		return nil
	})
}

func (uc *RunPayoutScanUseCase) notifyCompleted(ctx context.Context, investment *entity.Investment) {
	owner, err := uc.userRepo.FindByID(ctx, investment.UserID)
	if err != nil {
		slog.Error("Failed to load investment owner for notification", "investment_id", investment.ID, "error", err)
		return
	}
	if err := uc.notifier.QueueInvestmentCompletedEmail(ctx, adapter.InvestmentCompletedEmailInput{
		UserEmail:   owner.Email,
		UserName:    owner.Name,
		PlanName:    investment.PlanName,
		Amount:      investment.Amount,
		TotalReturn: investment.ReturnsCollected,
	}); err != nil {
		slog.Error("Failed to queue investment completed email", "investment_id", investment.ID, "error", err)
	}
}
