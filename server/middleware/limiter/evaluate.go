// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/i18n"
	"codeberg.org/tslate/tslate/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// excludedPaths won't have traffic filtered by the limiter middleware.
var excludedPaths = []string{
	"/healthz",
}

var errNoClientIP = errors.New("limiter: could not determine client IP")

// Evaluate is the limiter middleware. It answers 429 with the JSON error
// envelope once the client network has used up its tokens.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.maybeCleanup()

	if slices.Contains(excludedPaths, r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	ip := getClientIP(r)
	if ip == nil {
		log.Error().
			Str("remote_addr", r.RemoteAddr).
			Msg("Could not determine client IP")
		routes.WriteError(w, r, http.StatusBadRequest, errNoClientIP)

		return
	}

	network := getNetwork(ip, IPv4Prefix, IPv6Prefix).String()

	st := l.allow(l.getOrCreate(network))

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(l.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(st.remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.Itoa(st.reset))

	if !st.ok {
		log.Warn().
			Str("ip", ip.String()).
			Str("network", network).
			Msg("Request blocked, exceeded rate limit")

		w.Header().Set("Retry-After", strconv.Itoa(st.retryAfter))
		routes.WriteError(w, r, http.StatusTooManyRequests,
			i18n.NewUserError(r.Context(), "tslate::api", "Too many requests, retry in %d seconds", st.retryAfter))

		return
	}

	next.ServeHTTP(w, r)
}
