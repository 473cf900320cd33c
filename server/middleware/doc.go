// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the lookup API.

A [Middleware] receives the next handler explicitly, so the router can run a
chain of them in order. CatchError adapts error-returning route handlers.
*/
package middleware
