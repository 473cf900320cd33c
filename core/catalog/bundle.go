// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// ErrDuplicateLocale is returned by NewBundle when two catalogues share a language.
var ErrDuplicateLocale = errors.New("catalog: duplicate locale")

// Bundle holds the catalogues of several locales. The base locale is the
// language of the source strings and has no catalogue; it is also what
// unconfigured locales match.
type Bundle struct {
	base     language.Tag
	tags     []language.Tag // base first, then sorted by tag string
	catalogs []*Catalog     // parallel to tags; nil for the base
	matcher  language.Matcher
}

// NewBundle groups catalogs behind a matcher whose default is base.
// A catalogue for base itself is allowed and takes the place of the source.
func NewBundle(base language.Tag, catalogs ...*Catalog) (*Bundle, error) {
	sorted := slices.Clone(catalogs)
	slices.SortFunc(sorted, func(a, b *Catalog) int {
		return strings.Compare(a.tag.String(), b.tag.String())
	})

	b := &Bundle{
		base:     base,
		tags:     []language.Tag{base},
		catalogs: []*Catalog{nil},
	}

	for _, c := range sorted {
		if c.tag == base {
			if b.catalogs[0] != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateLocale, c.tag)
			}

			b.catalogs[0] = c

			continue
		}

		if slices.Contains(b.tags, c.tag) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLocale, c.tag)
		}

		b.tags = append(b.tags, c.tag)
		b.catalogs = append(b.catalogs, c)
	}

	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

// Base returns the language of the source strings.
func (b *Bundle) Base() language.Tag {
	return b.base
}

// Languages returns the base language followed by every loaded locale.
// The returned slice is a copy.
func (b *Bundle) Languages() []language.Tag {
	return slices.Clone(b.tags)
}

// Match returns the supported tag that best fits tag and its catalogue.
// Tags that match nothing resolve to the base language and a nil catalogue.
func (b *Bundle) Match(tag language.Tag) (language.Tag, *Catalog) {
	_, i, conf := b.matcher.Match(tag)
	if conf == language.No {
		i = 0
	}

	return b.tags[i], b.catalogs[i]
}

// MatchStrings is Match for user preferences such as "fr_FR", "pt-BR" or an
// Accept-Language header value. Unparsable entries are ignored.
func (b *Bundle) MatchStrings(prefs ...string) (language.Tag, *Catalog) {
	var tags []language.Tag

	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(p, "_", "-"))
		if err != nil {
			continue
		}

		tags = append(tags, parsed...)
	}

	if len(tags) == 0 {
		return b.tags[0], b.catalogs[0]
	}

	_, i, conf := b.matcher.Match(tags...)
	if conf == language.No {
		i = 0
	}

	return b.tags[i], b.catalogs[i]
}

// Catalog returns the catalogue loaded for exactly tag, or nil.
func (b *Bundle) Catalog(tag language.Tag) *Catalog {
	i := slices.Index(b.tags, tag)
	if i < 0 {
		return nil
	}

	return b.catalogs[i]
}

// Translate resolves source in context for tag. An unconfigured locale, a
// missing key or an unfinished translation yields source unchanged.
func (b *Bundle) Translate(tag language.Tag, context, source string) string {
	_, c := b.Match(tag)

	return c.Translate(context, source)
}
