// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL redirects paths with a trailing slash (except the root) to
// the path without it, keeping the query.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !hasTrailingSlash(r) {
		next.ServeHTTP(w, r)

		return
	}

	u := *r.URL
	u.Path = strings.TrimRight(u.Path, "/")

	if u.Path == "" {
		u.Path = "/"
	}

	// A leading "//" would make the target protocol-relative.
	target := "/" + strings.TrimLeft(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}

	http.Redirect(w, r, target, http.StatusPermanentRedirect)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}
