// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// Service queues account notifications for the worker to deliver.
type Service struct {
	queue      adapter.EmailQueueRepository
	clock      adapter.Clock
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, clock adapter.Clock, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		clock:      clock,
		appBaseURL: appBaseURL,
	}
}

// QueueWelcomeEmail queues the email sent after registration.
func (s *Service) QueueWelcomeEmail(ctx context.Context, input adapter.WelcomeEmailInput) error {
	return s.enqueue(ctx, entity.TemplateWelcome, input.UserEmail, input.UserName,
		"Welcome to Natural Surplus",
		map[string]interface{}{
			"user_name":     input.UserName,
			"referral_code": input.ReferralCode,
			"app_url":       s.appBaseURL,
		},
	)
}

// QueueDepositConfirmedEmail queues a receipt for a confirmed M-Pesa deposit.
func (s *Service) QueueDepositConfirmedEmail(ctx context.Context, input adapter.DepositConfirmedEmailInput) error {
	return s.enqueue(ctx, entity.TemplateDepositConfirmed, input.UserEmail, input.UserName,
		fmt.Sprintf("Deposit of KES %s received", input.Amount.StringFixed(2)),
		map[string]interface{}{
			"user_name":      input.UserName,
			"amount":         input.Amount.StringFixed(2),
			"receipt_number": input.ReceiptNumber,
			"app_url":        s.appBaseURL,
		},
	)
}

// QueueInvestmentCompletedEmail queues the notice sent when an investment pays its last day.
func (s *Service) QueueInvestmentCompletedEmail(ctx context.Context, input adapter.InvestmentCompletedEmailInput) error {
	return s.enqueue(ctx, entity.TemplateInvestmentCompleted, input.UserEmail, input.UserName,
		fmt.Sprintf("Your %s investment has completed", input.PlanName),
		map[string]interface{}{
			"user_name":    input.UserName,
			"plan_name":    input.PlanName,
			"amount":       input.Amount.StringFixed(2),
			"total_return": input.TotalReturn.StringFixed(2),
			"app_url":      s.appBaseURL,
		},
	)
}

func (s *Service) enqueue(ctx context.Context, template entity.EmailTemplateType, email, name, subject string, data map[string]interface{}) error {
	job := entity.NewEmailJob(template, email, name, subject, data, s.clock.Now())

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			fmt.Sprintf("failed to queue %s email", template),
			fmt.Errorf("%w: %w", domainerror.ErrEmailQueueFailed, err),
		)
	}

	return nil
}

// Ensure Service implements adapter.Notifier.
var _ adapter.Notifier = (*Service)(nil)
