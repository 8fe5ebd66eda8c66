// Package email provides email sending functionality.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/email/templates"
)

// Worker processes the email queue and sends emails.
type Worker struct {
	queue        adapter.EmailQueueRepository
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	clock        adapter.Clock
	pollInterval time.Duration
	batchSize    int
	retention    time.Duration
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long sent jobs are kept. Zero keeps them forever.
	Retention time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		Retention:    30 * 24 * time.Hour,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, clock adapter.Clock, config WorkerConfig) *Worker {
	return &Worker{
		queue:        queue,
		sender:       sender,
		renderer:     renderer,
		clock:        clock,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		retention:    config.Retention,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
			w.purgeSent(ctx)
		}
	}
}

// processBatch fetches and processes a batch of pending emails.
func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.queue.GetPendingJobs(ctx, w.clock.Now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing email batch", "count", len(jobs))

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
			w.processJob(ctx, job)
		}
	}
}

// processJob processes a single email job.
func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"recipient", job.RecipientEmail,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", "error", err)
		return
	}

	html, text, err := w.renderTemplate(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.handleFailure(ctx, job, err, true) // Template errors are permanent
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})

	if err != nil {
		logger.Error("Failed to send email", "error", err)

		// Senders that do not classify their errors are retried.
		var emailErr *domainerror.EmailError
		if !errors.As(err, &emailErr) {
			err = domainerror.NewEmailError(
				domainerror.ErrCodeEmailSendFailed,
				"email delivery failed",
				fmt.Errorf("%w: %w: %w", domainerror.ErrEmailSendFailed, domainerror.ErrTemporaryEmailFailure, err),
			)
		}

		w.handleFailure(ctx, job, err, domainerror.IsPermanentEmailFailure(err))
		return
	}

	job.MarkSent(result.ResendID, w.clock.Now())
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}

	logger.Info("Email sent successfully", "resend_id", result.ResendID)
}

// renderTemplate renders the appropriate template for the job.
func (w *Worker) renderTemplate(job *entity.EmailJob) (html string, text string, err error) {
	d := job.TemplateData

	var data interface{}
	switch job.TemplateType {
	case entity.TemplateWelcome:
		data = templates.WelcomeData{
			UserName:     getString(d, "user_name"),
			ReferralCode: getString(d, "referral_code"),
			AppURL:       getString(d, "app_url"),
		}
	case entity.TemplateDepositConfirmed:
		data = templates.DepositConfirmedData{
			UserName:      getString(d, "user_name"),
			Amount:        getString(d, "amount"),
			ReceiptNumber: getString(d, "receipt_number"),
			AppURL:        getString(d, "app_url"),
		}
	case entity.TemplateInvestmentCompleted:
		data = templates.InvestmentCompletedData{
			UserName:    getString(d, "user_name"),
			PlanName:    getString(d, "plan_name"),
			Amount:      getString(d, "amount"),
			TotalReturn: getString(d, "total_return"),
			AppURL:      getString(d, "app_url"),
		}
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type",
			domainerror.ErrInvalidTemplate,
		)
	}

	return w.renderer.Render(string(job.TemplateType), data)
}

// handleFailure handles a failed email job.
func (w *Worker) handleFailure(ctx context.Context, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent, w.clock.Now())

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		slog.Error("Failed to update job after failure",
			"job_id", job.ID,
			"error", updateErr,
		)
	}

	if job.Status == entity.EmailStatusFailed {
		slog.Warn("Email job permanently failed",
			"job_id", job.ID,
			"attempts", job.Attempts,
			"last_error", job.LastError,
		)
	} else {
		slog.Info("Email job scheduled for retry",
			"job_id", job.ID,
			"attempts", job.Attempts,
			"scheduled_at", job.ScheduledAt,
		)
	}
}

// getString safely extracts a string from a map.
func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// purgeSent deletes delivered jobs older than the retention window.
func (w *Worker) purgeSent(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	deleted, err := w.queue.DeleteSentBefore(ctx, w.clock.Now().Add(-w.retention))
	if err != nil {
		slog.Error("Failed to purge sent email jobs", "error", err)
		return
	}
	if deleted > 0 {
		slog.Debug("Purged sent email jobs", "count", deleted)
	}
}

// ProcessNow processes all due emails immediately.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}
