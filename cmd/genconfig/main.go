// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files under deploy/
// from the defaults of config.Config.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/config"
	"codeberg.org/tslate/tslate/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# tslate configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Environment variables override config.yaml.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# tslate configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below,
# or point TSLATE_CONFIGFILE / -config at it.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// uncommented lists the variables written active in the .env example.
var uncommented = map[string]bool{
	"TSLATE_HOST":        true,
	"TSLATE_PORT":        true,
	"TSLATE_CATALOG_DIR": true,
}

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll("deploy", 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create deploy directory")
	}

	write(envOutputFile, envFile())
	write(yamlOutputFile, yamlFile())
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example file")
}

// envFile renders one "## Section" block per config section, listing every
// env tagged field with its default value.
func envFile() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Tag.Get("env") == "-" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			tag, ok := innerTyp.Field(j).Tag.Lookup("env")
			if !ok || tag == "-" {
				continue
			}

			name := strings.Split(tag, ",")[0]
			value := envValue(structValue.Field(j))

			if uncommented[name] {
				fmt.Fprintf(&sb, "%s=%q\n", name, value)
			} else {
				fmt.Fprintf(&sb, "# %s=%s\n", name, value)
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString("## Config file\n# TSLATE_CONFIGFILE=./config.yaml\n")

	return sb.String()
}

// envValue formats v the way caarlos0/env parses it back.
func envValue(v reflect.Value) string {
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}

		return strings.Join(parts, ",")
	}

	return fmt.Sprint(v.Interface())
}

// yamlFile renders the defaults as YAML with every value commented out.
func yamlFile() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "basic:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String()
}
