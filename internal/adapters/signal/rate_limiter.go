package signal

import (
	"sync"
	"time"

	"github.com/dkeye/lobbyhub/internal/domain"
)

// FrameRateLimiter is a sliding window limit on inbound frames, shared by all
// connections of one member.
type FrameRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.MemberID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewFrameRateLimiter returns nil when limit is not positive, which disables limiting.
func NewFrameRateLimiter(limit int, interval time.Duration) *FrameRateLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &FrameRateLimiter{
		history:  make(map[domain.MemberID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *FrameRateLimiter) Allow(id domain.MemberID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	rl.history[id] = append(fresh, now)
	return true
}

func (rl *FrameRateLimiter) Forget(id domain.MemberID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, id)
}
