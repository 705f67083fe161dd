package http

import (
	"sync"
	"time"
)

const (
	staleBucketAge  = 1 * time.Hour
	cleanupInterval = 30 * time.Minute
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket. Buckets for clients that went
// quiet are dropped periodically so the map does not grow without bound.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	refillEvery time.Duration
	buckets     map[string]*bucket
	stopCleanup chan struct{}
}

func NewRateLimiter(capacity int, refillEvery time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		refillEvery: refillEvery,
		buckets:     make(map[string]*bucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for client, b := range r.buckets {
		if now.Sub(b.lastRefill) > staleBucketAge {
			delete(r.buckets, client)
		}
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
}

// Allow reports whether the client may proceed, consuming one token.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	b, exists := r.buckets[client]
	if !exists {
		r.buckets[client] = &bucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(b.lastRefill) >= r.refillEvery {
		b.tokens = r.capacity
		b.lastRefill = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
