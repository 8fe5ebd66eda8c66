package investment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/domain/valueobject"
)

// CreateInvestmentInput represents the input for creating an investment.
type CreateInvestmentInput struct {
	UserID uuid.UUID
	Source valueobject.InvestmentSource
}

// CreateInvestmentOutput represents the output of creating an investment.
type CreateInvestmentOutput struct {
	Investment  *entity.Investment
	Commissions []CommissionCredit
}

// CreateInvestmentUseCase opens an investment, applies its funding movement and pays
// referral commissions in one transaction.
type CreateInvestmentUseCase struct {
	txManager      adapter.TransactionManager
	userRepo       adapter.UserRepository
	planRepo       adapter.PlanRepository
	investmentRepo adapter.InvestmentRepository
	ledgerRepo     adapter.LedgerRepository
	propagator     *CommissionPropagator
	clock          adapter.Clock
	fundingMode    valueobject.FundingMode
}

// NewCreateInvestmentUseCase creates a new CreateInvestmentUseCase instance.
func NewCreateInvestmentUseCase(
	txManager adapter.TransactionManager,
	userRepo adapter.UserRepository,
	planRepo adapter.PlanRepository,
	investmentRepo adapter.InvestmentRepository,
	ledgerRepo adapter.LedgerRepository,
	propagator *CommissionPropagator,
	clock adapter.Clock,
	fundingMode valueobject.FundingMode,
) *CreateInvestmentUseCase {
	return &CreateInvestmentUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		planRepo:       planRepo,
		investmentRepo: investmentRepo,
		ledgerRepo:     ledgerRepo,
		propagator:     propagator,
		clock:          clock,
		fundingMode:    fundingMode,
	}
}

// Execute creates the investment.
func (uc *CreateInvestmentUseCase) Execute(ctx context.Context, input CreateInvestmentInput) (*CreateInvestmentOutput, error) {
	if input.Source == nil {
		return nil, domainerror.NewInvestmentError(
			domainerror.ErrCodeMissingInvestmentSource,
			"either a plan or custom terms are required",
			domainerror.ErrMissingInvestmentSource,
		)
	}

	var output *CreateInvestmentOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		investor, err := uc.userRepo.FindByIDForUpdate(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				return domainerror.NewInvestmentError(domainerror.ErrCodeInvestorNotFound, "User not found", err)
			}
			return fmt.Errorf("failed to load investor: %w", err)
		}

		terms, err := uc.resolveTerms(ctx, investor, input.Source)
		if err != nil {
			return err
		}

		now := uc.clock.Now().UTC()
		investment := entity.NewInvestment(investor.ID, terms, now)
		if err := uc.investmentRepo.Create(ctx, investment); err != nil {
			return fmt.Errorf("failed to create investment: %w", err)
		}

		if err := uc.applyFunding(ctx, investor, investment, now); err != nil {
			return err
		}

		credits, err := uc.propagator.Propagate(ctx, investor, investment.ID, investment.Amount)
		if err != nil {
			return fmt.Errorf("failed to propagate commissions: %w", err)
		}

		output = &CreateInvestmentOutput{Investment: investment, Commissions: credits}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Investment created",
		"investment_id", output.Investment.ID,
		"user_id", input.UserID,
		"amount", output.Investment.Amount.String(),
		"commissions", len(output.Commissions),
	)

	return output, nil
}

func (uc *CreateInvestmentUseCase) resolveTerms(ctx context.Context, investor *entity.User, source valueobject.InvestmentSource) (entity.InvestmentTerms, error) {
	switch src := source.(type) {
	case valueobject.PlanBased:
		plan, err := uc.planRepo.FindByID(ctx, src.PlanID)
		if err != nil {
			if errors.Is(err, domainerror.ErrPlanNotFound) {
				return entity.InvestmentTerms{}, domainerror.NewPlanError(domainerror.ErrCodePlanNotFound, "Plan not found", err)
			}
			return entity.InvestmentTerms{}, fmt.Errorf("failed to load plan: %w", err)
		}
		if !plan.Active {
			return entity.InvestmentTerms{}, domainerror.NewPlanError(domainerror.ErrCodePlanInactive, "Plan is no longer available", domainerror.ErrPlanInactive)
		}
		if !investor.CanAfford(plan.Amount) {
			return entity.InvestmentTerms{}, insufficientBalance()
		}
		return plan.Terms(), nil

	case valueobject.CustomTerms:
		if err := src.Validate(); err != nil {
			return entity.InvestmentTerms{}, domainerror.NewInvestmentError(
				domainerror.ErrCodeInvalidInvestmentTerms,
				"amount and dailyReturn must be positive with at most 2 decimals, duration at least 1",
				err,
			)
		}
		// Custom terms are only balance-checked when investing spends the balance.
		if uc.fundingMode == valueobject.FundingModeDebit && !investor.CanAfford(src.Amount) {
			return entity.InvestmentTerms{}, insufficientBalance()
		}
		return entity.InvestmentTerms{
			PlanName:    entity.CustomPlanName,
			Amount:      src.Amount,
			DailyReturn: src.DailyReturn,
			Duration:    src.Duration,
			TotalReturn: src.TotalReturn(),
		}, nil

	default:
		return entity.InvestmentTerms{}, domainerror.NewInvestmentError(
			domainerror.ErrCodeMissingInvestmentSource,
			"either a plan or custom terms are required",
			domainerror.ErrMissingInvestmentSource,
		)
	}
}

func (uc *CreateInvestmentUseCase) applyFunding(ctx context.Context, investor *entity.User, investment *entity.Investment, now time.Time) error {
	delta := investment.Amount
	kind := entity.LedgerKindInvestmentCredit
	description := "Investment in " + investment.PlanName
	if uc.fundingMode == valueobject.FundingModeDebit {
		delta = delta.Neg()
		kind = entity.LedgerKindInvestmentDebit
	}

	if err := uc.userRepo.IncrementBalance(ctx, investor.ID, delta, now); err != nil {
		return fmt.Errorf("failed to apply investment funding: %w", err)
	}
	investor.Balance = investor.Balance.Add(delta)

	entry := entity.NewLedgerEntry(investor.ID, kind, delta, description, now).ForInvestment(investment.ID)
	if err := uc.ledgerRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record investment funding: %w", err)
	}
	return nil
}

func insufficientBalance() error {
	return domainerror.NewInvestmentError(
		domainerror.ErrCodeInsufficientBalance,
		"Insufficient balance",
		domainerror.ErrInsufficientBalance,
	)
}
