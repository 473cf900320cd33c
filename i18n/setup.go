// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/core/catalog"
)

// bundle holds the loaded catalogues. It is swapped as a whole, so readers
// never see a partially loaded set.
var bundle atomic.Pointer[catalog.Bundle]

// Setup initialises package i18n by loading the TS catalogues of domain
// from dir in fsys with [catalog.LoadDir]. The expected layout is:
//
//	<dir>/<domain>_<locale>.ts
//
// Compressed files (.ts.gz, .ts.zst) are accepted. The template
// <domain>.ts is ignored. The base locale, [BaseLocale], is always
// supported and acts as the default fallback.
//
// Calling Setup again replaces the previously loaded catalogues.
func Setup(ctx context.Context, fsys fs.FS, dir, domain string) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	b, err := catalog.LoadDir(ctx, fsys, dir, domain, baseTag)
	if err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	SetBundle(b)

	for _, tag := range b.Languages()[1:] {
		Logger.Info().
			Str("locale", tag.String()).
			Str("domain", domain).
			Int("messages", b.Catalog(tag).Len()).
			Msg("Loaded locale")
	}

	return nil
}

// SetBundle installs b as the source of translations. A nil b unloads
// every catalogue, so all lookups return the source text.
func SetBundle(b *catalog.Bundle) {
	bundle.Store(b)
}

// Bundle returns the installed bundle, or nil before Setup.
func Bundle() *catalog.Bundle {
	return bundle.Load()
}

// resolve matches t to a loaded catalogue. Before Setup, or for a locale
// without a catalogue, the catalogue is nil.
func resolve(t language.Tag) (language.Tag, *catalog.Catalog) {
	b := bundle.Load()
	if b == nil {
		return baseTag, nil
	}

	return b.Match(t)
}
