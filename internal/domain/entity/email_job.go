package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus represents the status of an email job in the queue.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType represents the type of email template.
type EmailTemplateType string

const (
	TemplateWelcome             EmailTemplateType = "welcome"
	TemplateDepositConfirmed    EmailTemplateType = "deposit_confirmed"
	TemplateInvestmentCompleted EmailTemplateType = "investment_completed"
)

// EmailJob represents an email in the queue waiting to be sent.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]interface{}
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob creates a pending EmailJob scheduled for now.
func NewEmailJob(templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]interface{}, now time.Time) *EmailJob {
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		Attempts:       0,
		MaxAttempts:    3,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the email job as currently being processed.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent marks the email job as successfully sent.
func (e *EmailJob) MarkSent(resendID string, now time.Time) {
	e.Status = EmailStatusSent
	e.ResendID = resendID
	e.ProcessedAt = &now
}

// MarkFailed records a failed attempt and schedules a retry if attempts remain.
func (e *EmailJob) MarkFailed(err error, permanent bool, now time.Time) {
	e.Attempts++
	e.LastError = err.Error()

	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return
	}
	e.Status = EmailStatusPending
	e.ScheduledAt = now.Add(retryDelay(e.Attempts))
}

// retryDelays are applied after the 1st, 2nd and later failures.
var retryDelays = []time.Duration{0, 1 * time.Minute, 5 * time.Minute}

func retryDelay(attempts int) time.Duration {
	if attempts < len(retryDelays) {
		return retryDelays[attempts]
	}
	return retryDelays[len(retryDelays)-1]
}

// CanRetry returns true if the email job can be retried.
func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}

// IsReadyToProcess returns true if the email job is due at now.
func (e *EmailJob) IsReadyToProcess(now time.Time) bool {
	return e.Status == EmailStatusPending && !now.Before(e.ScheduledAt)
}
