// Package ratelimiter bounds how often one actor may hit the upload
// endpoints. Uploads fan out to the media store, so a runaway client here
// becomes a runaway client there; everything else rides on the store's own
// limits.
package ratelimiter

import (
	"sync"
	"time"
)

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

// FixedWindowRateLimiter counts requests per actor inside a fixed window.
type FixedWindowRateLimiter struct {
	sync.RWMutex
	actors map[string]int
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		actors: make(map[string]int),
		limit:  limit,
		window: window,
	}
	go rl.cleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		rl.Lock()
		rl.actors = make(map[string]int)
		rl.Unlock()
	}
}

// Allow reports whether the actor may proceed, and if not, how long until
// the window resets.
func (rl *FixedWindowRateLimiter) Allow(actor string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	if rl.actors[actor] < rl.limit {
		rl.actors[actor]++
		return true, 0
	}
	return false, rl.window
}
