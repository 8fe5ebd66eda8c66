package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/domain/entity"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
)

// emailQueueRepository implements the adapter.EmailQueueRepository interface.
type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates a new email queue repository instance.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{
		db: db,
	}
}

// Create adds a new email job to the queue.
func (r *emailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	return conn(ctx, r.db).Create(model.EmailQueueModelFromEntity(job)).Error
}

// GetPendingJobs retrieves jobs due at now, oldest schedule first.
func (r *emailQueueRepository) GetPendingJobs(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel
	err := conn(ctx, r.db).
		Where("status = ?", entity.EmailStatusPending).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return emailJobsFromModels(models), nil
}

// Update saves changes to an email job.
func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	return conn(ctx, r.db).Save(model.EmailQueueModelFromEntity(job)).Error
}

// GetByRecipient retrieves jobs for a specific email address, newest first.
func (r *emailQueueRepository) GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel
	err := conn(ctx, r.db).
		Where("recipient_email = ?", email).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return emailJobsFromModels(models), nil
}

// DeleteSentBefore removes sent jobs processed before cutoff.
func (r *emailQueueRepository) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("status = ?", entity.EmailStatusSent).
		Where("processed_at < ?", cutoff).
		Delete(&model.EmailQueueModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func emailJobsFromModels(models []model.EmailQueueModel) []*entity.EmailJob {
	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}
	return jobs
}
