// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command tslate-extract scans Go packages for translatable strings and
// writes them to TS files.
//
// Usage:
//
//	tslate-extract [-o translations/monero.ts]... [-C dir] [packages]
//
// Each output file is merged with its current content, so existing
// translations are kept and messages no longer found are marked vanished or
// obsolete. Passing every translation file with -o updates them all from
// one extraction; the template is written when -o is not given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/core/audit"
	"codeberg.org/tslate/tslate/core/extract"
	"codeberg.org/tslate/tslate/core/ts"
)

const defaultOutput = "translations/monero.ts"

func main() {
	audit.SetDefaultLogger()

	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("tslate-extract", flag.ContinueOnError)

	var outputs []string

	flags.Func("o", "output TS file, may be repeated (default "+defaultOutput+")", func(s string) error {
		outputs = append(outputs, s)

		return nil
	})

	var opts extract.Options

	flags.StringVar(&opts.Dir, "C", "", "resolve package patterns in `dir`")
	flags.StringVar(&opts.RelativeTo, "relative-to", "", "make locations relative to `dir` (default: project root)")
	flags.StringVar(&opts.SourceLanguage, "source-language", "en", "source language of the messages")
	flags.BoolVar(&opts.Tests, "tests", false, "also scan _test.go files")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if len(outputs) == 0 {
		outputs = []string{defaultOutput}
	}

	patterns := flags.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	extracted, err := extract.Extract(ctx, opts, patterns...)
	if err != nil {
		return err
	}

	log.Info().
		Int("contexts", len(extracted.Contexts)).
		Int("messages", extracted.MessageCount()).
		Msg("Extracted messages")

	for _, path := range outputs {
		if err := update(path, extracted); err != nil {
			return err
		}
	}

	return nil
}

// update merges extracted into the TS file at path, creating it if needed.
func update(path string, extracted *ts.File) error {
	existing, err := ts.OpenFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	merged := ts.Merge(existing, extracted)
	if existing == nil {
		merged.SourceLanguage = extracted.SourceLanguage
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := ts.WriteFile(path, merged); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("messages", merged.MessageCount()).
		Bool("created", existing == nil).
		Msg("Updated translation file")

	return nil
}
