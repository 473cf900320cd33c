// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"os"
)

const (
	configFileEnv     = "TSLATE_CONFIGFILE"
	defaultConfigPath = "./config.yaml"
	fallbackYMLPath   = "./config.yml"
)

// ConfigFlag defines the -config flag on fs and returns its value.
func ConfigFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Path to a tslate configuration file in YAML format.")
}

// resolveConfigPath picks the config file with the following precedence:
//  1. Command-line flag (-config)
//  2. Environment variable (TSLATE_CONFIGFILE)
//  3. ./config.yaml, or ./config.yml if only that one exists
//
// explicit is false for the defaults of 3, which may be absent.
func resolveConfigPath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}

	if envVar := os.Getenv(configFileEnv); envVar != "" {
		return envVar, true
	}

	if _, err := os.Stat(defaultConfigPath); os.IsNotExist(err) {
		if _, statErr := os.Stat(fallbackYMLPath); statErr == nil {
			return fallbackYMLPath, false
		}
	}

	return defaultConfigPath, false
}
