// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short request IDs for log correlation.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// entropyBytes is a multiple of 3 so the base64 form has no padding.
const entropyBytes = 6

// Make returns an ID made of the UTC wall clock time (HHMMSS) followed by
// 8 URL-safe base64 characters of entropy, e.g. "142305Xk3_aQ9z".
func Make() string {
	return makeAt(time.Now())
}

func makeAt(t time.Time) string {
	var entropy [entropyBytes]byte

	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(entropy[:])

	return maketime(t) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func maketime(t time.Time) string {
	return t.UTC().Format("150405")
}
