// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"slices"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/core/placeholder"
)

// formOrder is the order in which numerus forms are stored in a TS file.
var formOrder = []plural.Form{plural.Zero, plural.One, plural.Two, plural.Few, plural.Many, plural.Other}

// pluralSample bounds the integers sampled to discover which forms a language uses.
const pluralSample = 1000

// pluralForms returns the cardinal plural forms used by tag for integers,
// in numerus form order. Languages without plurals yield just [plural.Other].
func pluralForms(tag language.Tag) []plural.Form {
	seen := make(map[plural.Form]bool, len(formOrder))
	for n := range pluralSample + 1 {
		seen[plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)] = true
	}

	forms := make([]plural.Form, 0, len(seen))
	for _, f := range formOrder {
		if seen[f] {
			forms = append(forms, f)
		}
	}

	return forms
}

// PluralForms returns the plural forms of the catalogue's language in the
// order their numerus forms appear in a translation.
func (c *Catalog) PluralForms() []plural.Form {
	return slices.Clone(c.forms)
}

// formIndex returns the numerus form index used for the count n.
func (c *Catalog) formIndex(n int) int {
	if n < 0 {
		n = -n
	}

	form := plural.Cardinal.MatchPlural(c.tag, n, 0, 0, 0, 0)

	i := slices.Index(c.forms, form)
	if i < 0 {
		return len(c.forms) - 1
	}

	return i
}

// LookupNumerus returns the numerus form of source in context that the
// catalogue's plural rule selects for n, with the %n marker replaced by n.
// A form missing from the translation falls back to the last form present.
func (c *Catalog) LookupNumerus(context, source string, n int) (string, bool) {
	rec := c.get(context, source, "")
	if rec == nil {
		return "", false
	}

	if !rec.Numerus {
		return placeholder.ReplaceCount(rec.Translation, n), true
	}

	i := min(c.formIndex(n), len(rec.NumerusForms)-1)

	form := rec.NumerusForms[i]
	if form == "" {
		form = rec.NumerusForms[0]
	}

	return placeholder.ReplaceCount(form, n), true
}

// TranslateNumerus is LookupNumerus falling back to source with %n replaced.
func (c *Catalog) TranslateNumerus(context, source string, n int) string {
	if c != nil {
		if s, ok := c.LookupNumerus(context, source, n); ok {
			return s
		}
	}

	return placeholder.ReplaceCount(source, n)
}
