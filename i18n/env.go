// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// EnvPreferences returns the locale names requested by the POSIX locale
// variables, most preferred first. The message locale is the first set of
// LC_ALL, LC_MESSAGES and LANG; the colon-separated LANGUAGE list comes
// before it unless that locale is "C" or "POSIX", as in GNU gettext.
//
// Codeset and modifier suffixes are removed ("fr_FR.UTF-8@euro" becomes
// "fr_FR") and "C" or "POSIX" become [BaseLocale].
func EnvPreferences(getenv func(string) string) []string {
	var locale string

	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			locale = trimLocale(v)

			break
		}
	}

	if locale == "C" || locale == "POSIX" {
		return []string{BaseLocale}
	}

	var prefs []string

	for entry := range strings.SplitSeq(getenv("LANGUAGE"), ":") {
		switch entry = trimLocale(entry); entry {
		case "":
		case "C", "POSIX":
			prefs = append(prefs, BaseLocale)
		default:
			prefs = append(prefs, entry)
		}
	}

	if locale != "" {
		prefs = append(prefs, locale)
	}

	return prefs
}

// FromEnv returns the supported language tag that best fits
// [EnvPreferences], or [Base] when nothing matches.
func FromEnv(getenv func(string) string) language.Tag {
	b := bundle.Load()
	if b == nil {
		return Base()
	}

	tag, _ := b.MatchStrings(EnvPreferences(getenv)...)

	return tag
}

// trimLocale strips the codeset and modifier of a POSIX locale name.
func trimLocale(name string) string {
	name, _, _ = strings.Cut(name, "@")
	name, _, _ = strings.Cut(name, ".")

	return strings.TrimSpace(name)
}
