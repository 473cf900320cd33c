// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

var errInvalidYAML = errors.New("invalid YAML configuration")

// readYAML overlays the YAML file at path on cfg. A missing file is skipped
// unless the path was given with -config or TSLATE_CONFIGFILE. Unknown keys
// are rejected so that a misspelt setting does not keep its default.
func (cfg *Config) readYAML(path string, explicit bool) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file

	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		log.Debug().
			Str("path", path).
			Msg("No YAML configuration file found, skipping")

		return nil
	case err != nil:
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w in %s:\n%s", errInvalidYAML, path, yaml.FormatError(err, false, true))
	}

	log.Info().
		Str("path", path).
		Msg("Loaded configuration file")

	return nil
}
