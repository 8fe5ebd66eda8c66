package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/application/usecase/payout"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

type recordingScanner struct {
	mu       sync.Mutex
	triggers []entity.PayoutTrigger
	err      error
}

func (r *recordingScanner) Execute(_ context.Context, input payout.RunPayoutScanInput) (*payout.RunPayoutScanOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, input.Trigger)
	if r.err != nil {
		return nil, r.err
	}
	return &payout.RunPayoutScanOutput{Run: entity.NewPayoutRun(input.Trigger, time.Now())}, nil
}

func (r *recordingScanner) calls() []entity.PayoutTrigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.PayoutTrigger(nil), r.triggers...)
}

func TestPayoutScheduler_RunsOnScheduleUntilStopped(t *testing.T) {
	scanner := &recordingScanner{}
	s := NewPayoutScheduler(scanner, PayoutSchedulerConfig{
		FirstRunDelay: 5 * time.Millisecond,
		Interval:      10 * time.Millisecond,
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return len(scanner.calls()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	stoppedAt := len(scanner.calls())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stoppedAt, len(scanner.calls()), "no scans after Stop")

	for _, trigger := range scanner.calls() {
		assert.Equal(t, entity.PayoutTriggerScheduled, trigger)
	}
}

func TestPayoutScheduler_StartTwiceIsNoop(t *testing.T) {
	scanner := &recordingScanner{}
	s := NewPayoutScheduler(scanner, PayoutSchedulerConfig{FirstRunDelay: time.Hour, Interval: time.Hour})

	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()

	assert.Empty(t, scanner.calls())
}

func TestPayoutScheduler_KeepsRunningAfterFailedScan(t *testing.T) {
	scanner := &recordingScanner{err: domainerror.ErrPayoutScanInProgress}
	s := NewPayoutScheduler(scanner, PayoutSchedulerConfig{Interval: 10 * time.Millisecond})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return len(scanner.calls()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestPayoutScheduler_RunNow(t *testing.T) {
	scanner := &recordingScanner{}
	s := NewPayoutScheduler(scanner, DefaultPayoutSchedulerConfig())

	out, err := s.RunNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.PayoutTriggerManual, out.Run.Trigger)
	assert.Equal(t, []entity.PayoutTrigger{entity.PayoutTriggerManual}, scanner.calls())
}
