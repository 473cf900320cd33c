// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// maybeCleanup starts a cleanup in the background when at least
// CleanupInterval has passed since the previous one.
func (l *Limiter) maybeCleanup() {
	now := l.now()

	l.cleanupMu.Lock()

	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now
	}

	due := now.Sub(l.lastCleanupAt) >= CleanupInterval
	if due {
		l.lastCleanupAt = now
	}

	l.cleanupMu.Unlock()

	if due {
		go l.cleanupExpired()
	}
}

// cleanupExpired removes limiters that haven't been accessed for LimiterExpiryDuration.
func (l *Limiter) cleanupExpired() int {
	start := time.Now()
	now := l.now()
	expired := 0

	l.limiters.Range(func(key, value any) bool {
		lw := value.(*limiterWrapper) //nolint:forcetypeassert // only *limiterWrapper is stored

		lw.mu.Lock()
		idle := now.Sub(lw.lastAccess)
		lw.mu.Unlock()

		if idle > LimiterExpiryDuration {
			l.limiters.Delete(key)

			expired++
		}

		return true
	})

	if expired > 0 {
		log.Info().
			Int("count", expired).
			Dur("dur", time.Since(start)).
			Msg("Cleaned up expired limiters")
	}

	return expired
}
