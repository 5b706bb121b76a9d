// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucketIdleTTL is how long an IP's bucket survives without traffic
// before the sweep removes it.
const bucketIdleTTL = time.Hour

// RateLimiter keeps a token bucket per client IP. Buckets refill
// evenly across the configured window and idle buckets are pruned by
// a background sweep so the map cannot grow without bound.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*ipBucket
	rate    rate.Limit
	burst   int
	stop    chan struct{}
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows reqs requests per window per IP, with the full
// budget available as burst. The sweep goroutine runs until Stop.
func NewRateLimiter(reqs int, window time.Duration) *RateLimiter {
	if reqs <= 0 {
		reqs = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		buckets: make(map[string]*ipBucket),
		rate:    rate.Every(window / time.Duration(reqs)),
		burst:   reqs,
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop(5 * time.Minute)
	return rl
}

// Allow reports whether a request from ip fits its budget.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.buckets[ip]
	if !ok {
		entry = &ipBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.buckets[ip] = entry
	}
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-bucketIdleTTL)
	for ip, entry := range rl.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}
