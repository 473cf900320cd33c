// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LangParam is the name of the URL query parameter used by HTTP helpers to read
// a preferred UI language as a BCP 47 tag or a Qt locale name.
const LangParam = "lang"

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing the zero value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or [Base] if none is
// present. It never returns the zero value of [language.Tag].
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return Base()
}

// FromRequest returns the best supported language tag for r by inspecting
// user preferences in priority order:
// 1) query parameter [LangParam]
// 2) Accept-Language header
//
// Special case: if [LangParam] is "auto" (case-insensitive), it is ignored.
//
// If r is nil, or if Setup has not been called, FromRequest returns [Base].
func FromRequest(r *http.Request) language.Tag {
	b := bundle.Load()
	if r == nil || b == nil {
		return Base()
	}

	preferred := make([]string, 0, 2)

	if q := r.URL.Query().Get(LangParam); q != "" && !strings.EqualFold(q, "auto") {
		preferred = append(preferred, q)
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	tag, _ := b.MatchStrings(preferred...)

	return tag
}

// WithRequest resolves the language from r using [FromRequest] and installs the
// matched tag in the returned context. It is equivalent to:
//
//	WithTag(ctx, FromRequest(r))
//
// The ctx must not be nil.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
