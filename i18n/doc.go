// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates user-facing strings at runtime from Qt Linguist TS
catalogues loaded into a [catalog.Bundle].

# Quick start

Messages are keyed by a context name and the original English text; the
source text is the key, do not invent one. Load the catalogues once:

	err := i18n.Setup(ctx, os.DirFS("."), "translations", "monero")

then translate with the locale carried by ctx:

	i18n.Tr(ctx, "tools::wallet2", "Failed to parse address")
	i18n.Trf(ctx, "tools::wallet2", "Failed to get height of block %llu", height)
	i18n.TrN(ctx, "tools::wallet2", "%n output(s) found", n)

A [Scope] binds the context name once, like the per-class tr() helpers of
Qt code:

	const tr = i18n.Scope("cryptonote::simple_wallet")

	tr.Tr(ctx, "wallet is watch-only and cannot transfer")

# Selecting a locale

[WithTag] stores a language tag in a context. [FromRequest] picks one from
an HTTP request and [FromEnv] from the POSIX locale variables. Tags are
matched against the loaded catalogues, so "fr_FR" uses the "fr" catalogue.

# Missing translations

A missing, unfinished or empty translation yields the source text, as does
a locale without a catalogue. When StrictMissingKeys is enabled, missing
lookups are logged once per locale+key and the returned text is visibly
wrapped as "⟦...⟧".

# Formatting

[Trf] accepts C printf conversions such as %u, %llu or %zu in both the
source and the translation; they are rewritten to Go verbs before
formatting. Numbers are formatted for the selected locale.
*/
package i18n
