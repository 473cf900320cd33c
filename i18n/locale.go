// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en"

// baseTag is the canonical tag for BaseLocale.
var baseTag = language.Make(BaseLocale)

// Base returns the language of the source strings: the base of the loaded
// bundle, or the tag for [BaseLocale] before Setup.
func Base() language.Tag {
	if b := bundle.Load(); b != nil {
		return b.Base()
	}

	return baseTag
}

// Languages returns the list of supported language tags: the base language
// and every loaded catalogue.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	b := bundle.Load()
	if b == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := b.Languages()
	slices.SortFunc(out, func(x, y language.Tag) int { return strings.Compare(x.String(), y.String()) })

	return out
}
