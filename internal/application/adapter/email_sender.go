// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// Notifier queues account notifications.
type Notifier interface {
	QueueWelcomeEmail(ctx context.Context, input WelcomeEmailInput) error
	QueueDepositConfirmedEmail(ctx context.Context, input DepositConfirmedEmailInput) error
	QueueInvestmentCompletedEmail(ctx context.Context, input InvestmentCompletedEmailInput) error
}

// WelcomeEmailInput represents the input for queueing a welcome email.
type WelcomeEmailInput struct {
	UserEmail    string
	UserName     string
	ReferralCode string
}

// DepositConfirmedEmailInput represents the input for queueing a deposit confirmation.
type DepositConfirmedEmailInput struct {
	UserEmail     string
	UserName      string
	Amount        decimal.Decimal
	ReceiptNumber string
}

// InvestmentCompletedEmailInput represents the input for queueing an investment completion notice.
type InvestmentCompletedEmailInput struct {
	UserEmail   string
	UserName    string
	PlanName    string
	Amount      decimal.Decimal
	TotalReturn decimal.Decimal
}
