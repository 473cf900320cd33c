// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/convert"
	"codeberg.org/tslate/tslate/core/lint"
	"codeberg.org/tslate/tslate/core/placeholder"
	"codeberg.org/tslate/tslate/core/ts"
	"codeberg.org/tslate/tslate/i18n"
)

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string

	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

func runLint(args []string, stdout io.Writer) error {
	flags := newFlagSet("lint", "file.ts...")
	failOn := flags.String("fail-on", "warning", "exit with status 1 for issues of at least this `severity` (info, warning, error)")
	rules := flags.String("rules", "", "comma separated `rules` to run (default all: "+strings.Join(lint.RuleNames(), ",")+")")
	disable := flags.String("disable", "", "comma separated `rules` to skip")
	asJSON := flags.Bool("json", false, "print reports as JSON")

	if err := parse(flags, args, 1); err != nil {
		return err
	}

	minimum, err := lint.ParseSeverity(*failOn)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	opts := lint.Options{Rules: splitList(*rules), Disable: splitList(*disable)}

	type fileReport struct {
		File string `json:"file"`
		lint.Report
	}

	var (
		reports []fileReport
		failed  bool
	)

	for _, path := range flags.Args() {
		f, err := ts.OpenFile(path)
		if err != nil {
			return err
		}

		report, err := lint.Check(f, opts)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}

		failed = failed || report.Failed(minimum)
		reports = append(reports, fileReport{File: path, Report: report})

		if *asJSON {
			continue
		}

		for _, issue := range report.Issues {
			fmt.Fprintf(stdout, "%s: %s\n", path, issue)
		}

		log.Info().
			Str("file", path).
			Int("errors", report.Count(lint.Error)).
			Int("warnings", report.Count(lint.Warning)).
			Int("info", report.Count(lint.Info)).
			Msg("Checked catalogue")
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(reports); err != nil {
			return err
		}
	}

	if failed {
		return errLintFailed
	}

	return nil
}

func runLookup(args []string, stdout io.Writer) error {
	flags := newFlagSet("lookup", "source")
	dir := flags.String("dir", "./translations", "`directory` holding <domain>_<locale>.ts files")
	domain := flags.String("domain", "monero", "catalogue `domain`")
	base := flags.String("base", i18n.BaseLocale, "`locale` of the source strings")
	lang := flags.String("lang", "", "target `locale` (default from LANGUAGE, LC_ALL, LC_MESSAGES and LANG)")
	msgContext := flags.String("context", "", "message `context`, e.g. tools::wallet2")
	n := flags.Int("n", -1, "`count` selecting a numerus form; negative for none")
	format := flags.Bool("f", false, "format the translation with the remaining arguments, printf style; numbers are converted for numeric conversions")

	if err := parse(flags, args, 1); err != nil {
		return err
	}

	baseTag, err := catalog.ParseLocale(*base)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	b, err := catalog.LoadDir(context.Background(), os.DirFS(*dir), ".", *domain, baseTag)
	if err != nil {
		return err
	}

	i18n.SetBundle(b)

	tag := i18n.FromEnv(os.Getenv)
	if *lang != "" {
		tag, _ = b.MatchStrings(*lang)
	}

	ctx := i18n.WithTag(context.Background(), tag)
	source := flags.Arg(0)

	var out string

	switch {
	case *n >= 0:
		out = i18n.TrN(ctx, *msgContext, source, *n)
	case *format:
		out = i18n.Trf(ctx, *msgContext, source, placeholder.Args(source, flags.Args()[1:])...)
	default:
		out = i18n.Tr(ctx, *msgContext, source)
	}

	log.Debug().Str("locale", tag.String()).Msg("Resolved locale")

	_, err = fmt.Fprintln(stdout, out)

	return err
}

func runStats(args []string, stdout io.Writer) error {
	flags := newFlagSet("stats", "file.ts...")
	asJSON := flags.Bool("json", false, "print statistics as JSON, per context")

	if err := parse(flags, args, 1); err != nil {
		return err
	}

	type fileStats struct {
		File string `json:"file"`
		catalog.Stats
	}

	var all []fileStats

	for _, path := range flags.Args() {
		f, err := ts.OpenFile(path)
		if err != nil {
			return err
		}

		c, err := catalog.New(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		all = append(all, fileStats{File: path, Stats: c.Stats()})
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(all)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLOCALE\tDONE\tFINISHED\tUNFINISHED\tRETIRED\tCONFLICTS")

	for _, s := range all {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%d\t%d\t%d\t%d\n",
			s.File, s.Locale, s.Percent(), s.Finished, s.Unfinished, s.Retired, s.Conflicts)
	}

	return tw.Flush()
}

func runConvert(args []string, stdout io.Writer) error {
	registry := convert.DefaultRegistry()

	flags := newFlagSet("convert", "input.ts|input.po")
	to := flags.String("to", "po", "output `format` for a TS input: "+strings.Join(registry.Formats(), ", "))
	template := flags.String("template", "", "TS `file` to apply a PO input to (required for .po input)")
	lang := flags.String("lang", "", "language of the TS file made from a PO input (default: the PO Language header)")
	out := flags.String("o", "", "output `file` (default stdout)")

	if err := parse(flags, args, 1); err != nil {
		return err
	}

	input := flags.Arg(0)

	var data []byte

	if strings.HasSuffix(input, ".po") {
		if *template == "" {
			flags.Usage()

			return fmt.Errorf("%w: -template is required for PO input", errUsage)
		}

		raw, err := os.ReadFile(input) // #nosec G304 -- the input path is a command line argument
		if err != nil {
			return err
		}

		tmpl, err := ts.OpenFile(*template)
		if err != nil {
			return err
		}

		po := convert.ParsePo(raw)

		language := *lang
		if language == "" {
			language = po.GetDomain().Headers.Get("Language")
		}

		f := convert.FromPo(po, tmpl, language)

		if *out != "" {
			return ts.WriteFile(*out, f)
		}

		s, err := ts.EncodeString(f)
		if err != nil {
			return err
		}

		data = []byte(s)
	} else {
		f, err := ts.OpenFile(input)
		if err != nil {
			return err
		}

		data, err = registry.Export(*to, f)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
	}

	if *out != "" {
		return os.WriteFile(*out, data, 0o644) //nolint:gosec // translation files are not secret
	}

	_, err := stdout.Write(data)

	return err
}

func runMerge(args []string, stdout io.Writer) error {
	flags := newFlagSet("merge", "template.ts file.ts...")
	out := flags.String("o", "", "write the result to `file` instead of updating the single input in place")
	lang := flags.String("lang", "", "language of files that do not exist yet")

	if err := parse(flags, args, 2); err != nil {
		return err
	}

	if *out != "" && flags.NArg() != 2 {
		return fmt.Errorf("%w: -o takes exactly one file to merge", errUsage)
	}

	template, err := ts.OpenFile(flags.Arg(0))
	if err != nil {
		return err
	}

	for _, path := range flags.Args()[1:] {
		existing, err := ts.OpenFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		merged := ts.Merge(existing, template)
		if existing == nil {
			merged.Language = *lang
			merged.SourceLanguage = template.SourceLanguage
		}

		dest := path
		if *out != "" {
			dest = *out
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}

		if err := ts.WriteFile(dest, merged); err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%s: %d messages\n", dest, merged.MessageCount())
	}

	return nil
}
