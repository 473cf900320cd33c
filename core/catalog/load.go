// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/core/ts"
)

// ErrNoCatalogs is returned by LoadDir when dir holds no translation files.
var ErrNoCatalogs = errors.New("catalog: no translation files")

// LocaleFromName returns the locale part of a translation file name such as
// "monero_fr.ts" or "monero_pt_BR.ts.zst" for domain "monero". It reports
// false for the template ("monero.ts") and for files of other domains.
func LocaleFromName(name, domain string) (string, bool) {
	if !ts.HasExt(name) {
		return "", false
	}

	locale, ok := strings.CutPrefix(ts.TrimExt(name), domain+"_")
	if !ok || locale == "" {
		return "", false
	}

	return locale, true
}

// LoadDir decodes every "<domain>_<locale>.ts" file in dir concurrently and
// returns them as a Bundle over base. Compressed files are accepted. The
// template "<domain>.ts" is skipped. The language attribute of a file takes
// precedence over the locale in its name.
func LoadDir(ctx context.Context, fsys fs.FS, dir, domain string, base language.Tag) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", dir, err)
	}

	logger := log.With().Str("sys", "catalog").Logger()

	type job struct {
		name   string
		locale string
	}

	var jobs []job

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		locale, ok := LocaleFromName(entry.Name(), domain)
		if !ok {
			continue
		}

		jobs = append(jobs, job{name: entry.Name(), locale: locale})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w in %s for domain %q", ErrNoCatalogs, dir, domain)
	}

	catalogs := make([]*Catalog, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c, err := loadOne(fsys, path.Join(dir, j.name), j.locale)
			if err != nil {
				return err
			}

			catalogs[i] = c

			logger.Debug().
				Str("file", j.name).
				Str("locale", c.tag.String()).
				Int("translated", c.Len()).
				Msg("Loaded catalog")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewBundle(base, catalogs...)
}

func loadOne(fsys fs.FS, name, locale string) (*Catalog, error) {
	f, err := ts.OpenFS(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}

	if f.Language != "" {
		return New(f, WithPath(name))
	}

	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}

	return New(f, WithTag(tag), WithPath(name))
}
