// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/core/catalog"
)

// validation errors.
var (
	errInvalidPort        = errors.New("Basic.Port must be a number between 1 and 65535")
	errInvalidTimeout     = errors.New("Basic.ShutdownTimeout cannot be negative")
	errEmptyCatalogDir    = errors.New("Catalog.Dir cannot be empty")
	errEmptyCatalogDomain = errors.New("Catalog.Domain cannot be empty")
	errInvalidBaseLocale  = errors.New("invalid Catalog.BaseLocale")
	errInvalidCacheSize   = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidLimiterRate = errors.New("Limiter.Rate must be positive when the limiter is enabled")
	errInvalidBurst       = errors.New("Limiter.Burst must be at least 1 when the limiter is enabled")
	errInvalidLogLevel    = errors.New("invalid Log.Level")
	errInvalidLogFormat   = errors.New(`Log.Format must be "console" or "json"`)
)

const maxPort = 65535

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if cfg.Basic.Host == "" {
		cfg.Basic.Host = "localhost"
		log.Info().
			Str("host", cfg.Basic.Host).
			Msg("Binding to default host")
	}

	port, err := strconv.Atoi(cfg.Basic.Port)
	if err != nil || port < 1 || port > maxPort {
		return fmt.Errorf("%w, got %q", errInvalidPort, cfg.Basic.Port)
	}

	if cfg.Basic.ShutdownTimeout < 0 {
		return errInvalidTimeout
	}

	if strings.TrimSpace(cfg.Catalog.Dir) == "" {
		return errEmptyCatalogDir
	}

	if strings.TrimSpace(cfg.Catalog.Domain) == "" {
		return errEmptyCatalogDomain
	}

	base, err := catalog.ParseLocale(cfg.Catalog.BaseLocale)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidBaseLocale, cfg.Catalog.BaseLocale, err)
	}

	cfg.Catalog.Base = base

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if cfg.Limiter.Enabled {
		if cfg.Limiter.Rate <= 0 {
			return errInvalidLimiterRate
		}

		if cfg.Limiter.Burst < 1 {
			return errInvalidBurst
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		return fmt.Errorf("%w %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return errInvalidLogFormat
	}

	return nil
}
