// Package scheduler runs background jobs on a fixed cadence.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/natural-surplus/backend/internal/application/usecase/payout"
	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// PayoutScanner runs a single payout scan.
type PayoutScanner interface {
	Execute(ctx context.Context, input payout.RunPayoutScanInput) (*payout.RunPayoutScanOutput, error)
}

// PayoutSchedulerConfig holds the cadence of the payout scheduler.
type PayoutSchedulerConfig struct {
	FirstRunDelay time.Duration
	Interval      time.Duration
}

// DefaultPayoutSchedulerConfig returns the default scheduler cadence.
func DefaultPayoutSchedulerConfig() PayoutSchedulerConfig {
	return PayoutSchedulerConfig{
		FirstRunDelay: time.Second,
		Interval:      time.Hour,
	}
}

// PayoutScheduler triggers payout scans periodically.
type PayoutScheduler struct {
	scanner  PayoutScanner
	cfg      PayoutSchedulerConfig
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight sync.Mutex
}

// NewPayoutScheduler creates a new payout scheduler.
func NewPayoutScheduler(scanner PayoutScanner, cfg PayoutSchedulerConfig) *PayoutScheduler {
	defaults := DefaultPayoutSchedulerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.FirstRunDelay < 0 {
		cfg.FirstRunDelay = 0
	}
	return &PayoutScheduler{scanner: scanner, cfg: cfg}
}

// Start launches the scheduling loop in a goroutine. Calling Start on a running
// scheduler is a no-op.
func (s *PayoutScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, s.done)
}

// Stop cancels the loop and waits for an in-flight scan to return.
func (s *PayoutScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// RunNow runs one scan immediately on the caller's goroutine.
func (s *PayoutScheduler) RunNow(ctx context.Context) (*payout.RunPayoutScanOutput, error) {
	return s.run(ctx, entity.PayoutTriggerManual)
}

func (s *PayoutScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	slog.Info("Payout scheduler started",
		"first_run_delay", s.cfg.FirstRunDelay,
		"interval", s.cfg.Interval,
	)

	timer := time.NewTimer(s.cfg.FirstRunDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		slog.Info("Payout scheduler shutting down")
		return
	case <-timer.C:
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Payout scheduler shutting down")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *PayoutScheduler) tick(ctx context.Context) {
	if _, err := s.run(ctx, entity.PayoutTriggerScheduled); err != nil {
		if errors.Is(err, domainerror.ErrPayoutScanInProgress) {
			slog.Info("Payout scan skipped, another instance holds the lock")
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("Scheduled payout scan failed", "error", err)
	}
}

// run serialises scans started by this process.
func (s *PayoutScheduler) run(ctx context.Context, trigger entity.PayoutTrigger) (*payout.RunPayoutScanOutput, error) {
	s.inFlight.Lock()
	defer s.inFlight.Unlock()
	return s.scanner.Execute(ctx, payout.RunPayoutScanInput{Trigger: trigger})
}
