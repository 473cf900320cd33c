// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/placeholder"
)

// NewUserError creates a new UserError from a translated, formatted message.
func NewUserError(ctx context.Context, context, source string, args ...any) *UserError {
	return &UserError{
		context: context,
		source:  source,
		msg:     Trf(ctx, context, source, args...),
	}
}

// UserError is an error type whose message is a translated string.
// It is intended for errors that can be shown directly to the end user.
type UserError struct {
	context string
	source  string
	msg     string
}

// Error returns the translated error message.
func (e *UserError) Error() string {
	return e.msg
}

// Source returns the untranslated message, for logs.
func (e *UserError) Source() string {
	return e.source
}

// Tr returns the translation of source in context for the locale in ctx.
//
// If a translation is not found or is unfinished, Tr returns source
// unchanged, or visibly wrapped if strict mode is enabled.
func Tr(ctx context.Context, context, source string) string {
	matched, c := resolve(TagFrom(ctx))

	if s, ok := c.Lookup(context, source); ok {
		return s
	}

	return missing(matched, context, source)
}

// Trf translates source in context and formats it with args, printf style.
// C conversions such as %llu in the source or the translation are accepted.
func Trf(ctx context.Context, context, source string, args ...any) string {
	matched, c := resolve(TagFrom(ctx))

	if _, ok := c.Lookup(context, source); ok {
		return c.Sprintf(context, source, args...)
	}

	return sprintf(matched, missing(matched, context, source), args...)
}

// TrN translates a numerus message for the count n and replaces its %n
// markers with n. The form is chosen with the plural rule of the matched
// locale; the source is used, with %n replaced, when there is no translation.
func TrN(ctx context.Context, context, source string, n int) string {
	matched, c := resolve(TagFrom(ctx))

	if s, ok := c.LookupNumerus(context, source, n); ok {
		return s
	}

	return placeholder.ReplaceCount(missing(matched, context, source), n)
}

// missing reports a lookup without a usable translation and returns the
// text to show instead.
func missing(matched language.Tag, context, source string) string {
	if !strictMissingKeys() || isBase(matched) {
		return source
	}

	logMissingOnce(strippedTagString(matched), buildLogKey(context, source))

	return "⟦" + source + "⟧"
}

// isBase reports whether tag is the source language without a catalogue
// of its own, where the source text is the translation.
func isBase(tag language.Tag) bool {
	b := bundle.Load()

	return b == nil || (tag == b.Base() && b.Catalog(tag) == nil)
}

func sprintf(tag language.Tag, format string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(placeholder.ToGo(format), args...)
}

// Scope binds a translation context, such as a C++ class name, so call sites
// only pass the source text.
type Scope string

// Tr is [Tr] with the scope as context.
func (s Scope) Tr(ctx context.Context, source string) string {
	return Tr(ctx, string(s), source)
}

// Trf is [Trf] with the scope as context.
func (s Scope) Trf(ctx context.Context, source string, args ...any) string {
	return Trf(ctx, string(s), source, args...)
}

// TrN is [TrN] with the scope as context.
func (s Scope) TrN(ctx context.Context, source string, n int) string {
	return TrN(ctx, string(s), source, n)
}

// Catalog returns the catalogue used for the locale in ctx, or nil when the
// locale resolves to the source language.
func Catalog(ctx context.Context) *catalog.Catalog {
	_, c := resolve(TagFrom(ctx))

	return c
}
