// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
tslate reads, checks and serves Qt TS translation catalogues.

Usage:

	tslate <command> [flags] [arguments]

Commands:

	lint     check translations for broken placeholders, markup and conflicts
	lookup   translate one message with the catalogues of a directory
	stats    report translation progress of TS files
	convert  convert a TS file to PO or go-i18n TOML, or a PO file back to TS
	merge    update TS files from a template
	serve    run the read-only lookup API
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/core/audit"
)

// command is one tslate subcommand.
type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"lint", "check translations for broken placeholders, markup and conflicts", runLint},
	{"lookup", "translate one message with the catalogues of a directory", runLookup},
	{"stats", "report translation progress of TS files", runStats},
	{"convert", "convert a TS file to PO or go-i18n TOML, or a PO file back to TS", runConvert},
	{"merge", "update TS files from a template", runMerge},
	{"serve", "run the read-only lookup API", runServe},
}

var (
	errUsage      = errors.New("usage")
	errLintFailed = errors.New("lint found issues at or above the failure severity")
)

// main is the entry point of the application.
func main() {
	audit.SetDefaultLogger()

	err := run(os.Args[1:], os.Stdout)

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	case errors.Is(err, errLintFailed):
		os.Exit(1)
	default:
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(os.Stderr)

		return errUsage
	}

	i := slices.IndexFunc(commands, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			usage(stdout)

			return nil
		}

		fmt.Fprintf(os.Stderr, "tslate: unknown command %q\n\n", args[0])
		usage(os.Stderr)

		return errUsage
	}

	return commands[i].run(args[1:], stdout)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tslate <command> [flags] [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "tslate <command> -h" for the flags of a command.`)
}

// newFlagSet returns a flag set for a subcommand whose usage lists args.
func newFlagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet("tslate "+name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tslate %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

// parse parses args and checks that at least minArgs positional arguments remain.
func parse(fs *flag.FlagSet, args []string, minArgs int) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if fs.NArg() < minArgs {
		fs.Usage()

		return errUsage
	}

	return nil
}
