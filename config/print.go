// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Print logs the version and writes the effective configuration to stderr.
func (cfg *Config) Print() {
	log.Info().
		Str("version", cfg.Build.Version()).
		Str("revision", cfg.Build.Revision()).
		Str("go", cfg.Build.GoVersion).
		Msg("Starting tslate")

	configYAML, err := yaml.MarshalWithOptions(
		cfg,
		GetDurationEncoderOption(),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
