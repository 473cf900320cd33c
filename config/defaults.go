// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default shutdown timeout in seconds.
	defaultShutdownTimeoutSeconds = 10
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 300

	// Default sustained request rate per client, in requests per second.
	defaultLimiterRate = 10
	// Default burst size per client.
	defaultLimiterBurst = 20
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"
	cfg.Basic.ShutdownTimeout = defaultShutdownTimeoutSeconds * time.Second

	cfg.Catalog.Dir = "./translations"
	cfg.Catalog.Domain = "monero"
	cfg.Catalog.BaseLocale = "en"

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 64

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst

	cfg.Development.InDevelopment = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Internationalization.StrictMissingKeys = false
}
