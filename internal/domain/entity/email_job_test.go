package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailJob_MarkFailed(t *testing.T) {
	newJob := func() *EmailJob {
		return NewEmailJob(TemplateWelcome, "jane@example.com", "Jane", "Welcome", nil, start)
	}

	t.Run("temporary failures are rescheduled with backoff", func(t *testing.T) {
		job := newJob()

		job.MarkFailed(errors.New("timeout"), false, start)
		assert.Equal(t, EmailStatusPending, job.Status)
		assert.Equal(t, start.Add(time.Minute), job.ScheduledAt)
		assert.False(t, job.IsReadyToProcess(start))
		assert.True(t, job.IsReadyToProcess(start.Add(time.Minute)))

		job.MarkFailed(errors.New("timeout"), false, start)
		assert.Equal(t, start.Add(5*time.Minute), job.ScheduledAt)

		job.MarkFailed(errors.New("timeout"), false, start)
		assert.Equal(t, EmailStatusFailed, job.Status)
		assert.False(t, job.CanRetry())
		assert.NotNil(t, job.ProcessedAt)
	})

	t.Run("permanent failures stop immediately", func(t *testing.T) {
		job := newJob()

		job.MarkFailed(errors.New("invalid recipient"), true, start)

		assert.Equal(t, EmailStatusFailed, job.Status)
		assert.Equal(t, 1, job.Attempts)
		assert.Equal(t, "invalid recipient", job.LastError)
	})
}
