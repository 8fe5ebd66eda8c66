package adapter

import (
	"context"
	"time"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// EmailQueueRepository defines the interface for email queue persistence operations.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs retrieves jobs due at now, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByRecipient retrieves jobs for a specific email address.
	GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error)

	// DeleteSentBefore removes sent jobs processed before cutoff.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
