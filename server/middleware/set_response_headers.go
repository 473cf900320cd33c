// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/tslate/tslate/config"
)

// baseHeaders defines the default headers to be set in responses.
//
// Tslate-Version and Tslate-Revision are added dynamically in SetResponseHeaders.
var baseHeaders = http.Header{
	"Referrer-Policy":         {"no-referrer"},
	"X-Content-Type-Options":  {"nosniff"},
	"X-Frame-Options":         {"DENY"},
	"Content-Security-Policy": {"default-src 'none'; frame-ancestors 'none'"},
	// Responses depend on the negotiated locale.
	"Vary": {"Accept-Language"},
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	setCacheControl(headers, r.URL.Path)

	headers.Set("Tslate-Version", config.Global.Build.Version())
	headers.Set("Tslate-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

// setCacheControl lets clients cache catalogue data for the configured
// max age. The health check and development builds are never cached.
func setCacheControl(headers http.Header, path string) {
	maxAge := int(config.Global.HTTPCache.MaxAge.Seconds())

	if maxAge <= 0 || config.Global.Development.InDevelopment || !strings.HasPrefix(path, "/api/") {
		headers.Set("Cache-Control", "no-cache")

		return
	}

	headers.Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
}
