// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits API requests per client network.

Clients are grouped by network (a /32 for IPv4, a /64 for IPv6) and each
network gets a token bucket. Idle buckets are dropped periodically.
*/
package limiter
