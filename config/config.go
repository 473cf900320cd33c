// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Global exposes the loaded configuration.
var Global Config

// Config holds the application configuration.
type Config struct {
	Build buildInfo `env:"-" yaml:"-"`

	Basic struct {
		Host string `env:"TSLATE_HOST" yaml:"host"`
		Port string `env:"TSLATE_PORT" yaml:"port"`
		// How long serve waits for in-flight requests on shutdown.
		ShutdownTimeout time.Duration `env:"TSLATE_SHUTDOWN_TIMEOUT" yaml:"shutdownTimeout"`
	} `yaml:"basic"`

	Catalog struct {
		Dir        string       `env:"TSLATE_CATALOG_DIR"  yaml:"dir"`
		Domain     string       `env:"TSLATE_CATALOG_DOMAIN" yaml:"domain"`
		BaseLocale string       `env:"TSLATE_BASE_LOCALE" yaml:"baseLocale"`
		Base       language.Tag `env:"-" yaml:"-"`
	} `yaml:"catalog"`

	Cache struct {
		Enabled bool `env:"TSLATE_CACHE" yaml:"enabled"`
		Size    int  `env:"TSLATE_CACHE_SIZE" yaml:"cacheSize"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge time.Duration `env:"TSLATE_CACHE_CONTROL_MAX_AGE" yaml:"cacheControlMaxAge"`
	} `yaml:"httpCache"`

	Limiter struct {
		Enabled bool    `env:"TSLATE_LIMITER" yaml:"enabled"`
		Rate    float64 `env:"TSLATE_LIMITER_RATE" yaml:"rate"`
		Burst   int     `env:"TSLATE_LIMITER_BURST" yaml:"burst"`
	} `yaml:"limiter"`

	Development struct {
		InDevelopment bool `env:"TSLATE_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"TSLATE_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"TSLATE_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"TSLATE_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"TSLATE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from defaults, the YAML file, a .env
// file and the environment, in increasing order of precedence.
//
// configFlagValue is the value of the -config flag; it wins over
// TSLATE_CONFIGFILE and the default ./config.yaml (or ./config.yml).
func (cfg *Config) LoadConfig(configFlagValue string) error {
	configFilePath, explicit := resolveConfigPath(configFlagValue)

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath, explicit); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := cfg.readEnv(); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	return nil
}

// WarnIfContainerized logs a warning when running in a container with a
// host that is not reachable from outside of it.
func (cfg *Config) WarnIfContainerized() {
	if isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}
}

var skippedPathPrefixes = []string{"/healthz"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *Config) ShouldSkipServerLogging(path string) bool {
	if cfg.Development.InDevelopment {
		return false
	}

	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
