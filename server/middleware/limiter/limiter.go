// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	IPv4Prefix            = 32
	IPv6Prefix            = 64
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Minimum interval between cleanup runs.
)

// Limiter holds one token bucket per client network.
type Limiter struct {
	rate  rate.Limit
	burst int

	limiters sync.Map // network string to *limiterWrapper

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time

	now func() time.Time // replaced in tests
}

// limiterWrapper holds a rate limiter and its last access time.
type limiterWrapper struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// New returns a Limiter allowing r requests per second per network, with
// bursts of up to burst requests.
func New(r float64, burst int) *Limiter {
	return &Limiter{
		rate:  rate.Limit(r),
		burst: burst,
		now:   time.Now,
	}
}

// getOrCreate returns the limiter of network, creating it on first use.
func (l *Limiter) getOrCreate(network string) *limiterWrapper {
	if v, ok := l.limiters.Load(network); ok {
		return v.(*limiterWrapper) //nolint:forcetypeassert // only *limiterWrapper is stored
	}

	v, _ := l.limiters.LoadOrStore(network, &limiterWrapper{
		limiter:    rate.NewLimiter(l.rate, l.burst),
		lastAccess: l.now(),
	})

	return v.(*limiterWrapper) //nolint:forcetypeassert // only *limiterWrapper is stored
}

// status is the outcome of one rate limit check.
type status struct {
	ok         bool
	remaining  int // whole tokens left
	reset      int // seconds until the bucket is full
	retryAfter int // seconds until the next token, at least 1
}

// allow consumes one token from lw.
func (l *Limiter) allow(lw *limiterWrapper) status {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	now := l.now()
	lw.lastAccess = now

	st := status{ok: lw.limiter.AllowN(now, 1), retryAfter: 1}

	tokens := lw.limiter.TokensAt(now)
	st.remaining = max(0, min(l.burst, int(tokens)))

	if l.rate > 0 {
		st.reset = secondsFor(float64(l.burst)-tokens, l.rate)
		st.retryAfter = max(1, secondsFor(1-tokens, l.rate))
	}

	return st
}

// secondsFor returns the whole seconds needed to refill n tokens.
func secondsFor(n float64, r rate.Limit) int {
	if n <= 0 {
		return 0
	}

	return int(math.Ceil(n / float64(r)))
}

// Len returns the number of tracked networks.
func (l *Limiter) Len() int {
	n := 0

	l.limiters.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
