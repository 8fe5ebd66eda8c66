package mock

import (
	"sync"
	"time"
)

// Time is a clock that keeps ticking from a settable starting point.
type Time struct {
	mu               sync.Mutex
	currentStartTime time.Time
	updatedAt        time.Time
}

func NewTime() *Time {
	return &Time{
		currentStartTime: time.Now().UTC(),
		updatedAt:        time.Now(),
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = currentTime
	t.updatedAt = time.Now()
}

// Advance moves the clock forward by d.
func (t *Time) Advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = t.currentStartTime.Add(d)
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentStartTime.Add(time.Since(t.updatedAt))
}
