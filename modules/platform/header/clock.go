package header

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Clock supplies wall time for the clear/re-set debounce window.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock
var SystemClock Clock = systemClock{}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the frozen time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequence hands out strictly increasing logical ticks. Ticks order
// descriptor writes (stamps) and screen mounts (generations).
type sequence struct {
	n atomic.Uint64
}

func (s *sequence) next() uint64 {
	return s.n.Inc()
}

func (s *sequence) last() uint64 {
	return s.n.Load()
}
