// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/config"
	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/ts"
)

// Tests in this package share the installed bundle and config.Global, so
// they do not run in parallel.

const walletContext = "tools::wallet2"

func newTestBundle(t *testing.T) *catalog.Bundle {
	t.Helper()

	fr, err := catalog.New(&ts.File{
		Language: "fr_FR",
		Contexts: []ts.Context{{
			Name: walletContext,
			Messages: []ts.Message{
				{Source: "Failed to parse address", Translation: ts.Translation{Text: "Adresse invalide"}},
				{Source: "daemon is busy", Translation: ts.Translation{Type: ts.Unfinished, Text: "le démon"}},
				{Source: "Failed to get block %llu: %s", Translation: ts.Translation{Text: "Échec du bloc %llu : %s"}},
				{
					Source:      "%n output(s) found",
					Numerus:     true,
					Translation: ts.Translation{NumerusForms: []string{"%n sortie trouvée", "%n sorties trouvées"}},
				},
			},
		}},
	})
	require.NoError(t, err)

	ru, err := catalog.New(&ts.File{
		Language: "ru",
		Contexts: []ts.Context{{
			Name: walletContext,
			Messages: []ts.Message{{
				Source:      "%n output(s) found",
				Numerus:     true,
				Translation: ts.Translation{NumerusForms: []string{"найден %n выход", "найдено %n выхода", "найдено %n выходов"}},
			}},
		}},
	})
	require.NoError(t, err)

	b, err := catalog.NewBundle(language.English, fr, ru)
	require.NoError(t, err)

	return b
}

// install sets up the package for one test and restores it afterwards.
func install(t *testing.T, b *catalog.Bundle, strict bool) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	previousLogger := Logger
	previousStrict := config.Global.Internationalization.StrictMissingKeys

	SetBundle(b)
	Logger = zerolog.New(&buf)
	config.Global.Internationalization.StrictMissingKeys = strict

	t.Cleanup(func() {
		SetBundle(nil)
		Logger = previousLogger
		config.Global.Internationalization.StrictMissingKeys = previousStrict
		missingKeyOnce = sync.Map{}
	})

	return &buf
}

func TestTr(t *testing.T) {
	install(t, newTestBundle(t), false)

	fr := WithTag(context.Background(), language.MustParse("fr-CA"))
	de := WithTag(context.Background(), language.German)

	assert.Equal(t, "Adresse invalide", Tr(fr, walletContext, "Failed to parse address"))
	assert.Equal(t, "daemon is busy", Tr(fr, walletContext, "daemon is busy"), "unfinished falls back to the source")
	assert.Equal(t, "Failed to parse address", Tr(fr, "Wallet", "Failed to parse address"), "context is part of the key")
	assert.Equal(t, "Failed to parse address", Tr(de, walletContext, "Failed to parse address"), "unconfigured locale")
	assert.Equal(t, "Failed to parse address", Tr(context.Background(), walletContext, "Failed to parse address"))

	assert.Equal(t, "Adresse invalide", Scope(walletContext).Tr(fr, "Failed to parse address"))
	assert.Equal(t, "Adresse invalide", MsgKey{Context: walletContext, Source: "Failed to parse address"}.Tr(fr))

	var sb strings.Builder
	require.NoError(t, MsgKey{Context: walletContext, Source: "Failed to parse address"}.Render(fr, &sb))
	assert.Equal(t, "Adresse invalide", sb.String())
}

func TestTrBeforeSetup(t *testing.T) {
	install(t, nil, true)

	ctx := WithTag(context.Background(), language.French)

	assert.Equal(t, "Failed to parse address", Tr(ctx, walletContext, "Failed to parse address"))
	assert.Equal(t, "3 output(s) found", TrN(ctx, walletContext, "%n output(s) found", 3))
	assert.Equal(t, language.French, TagFrom(ctx))
	assert.Equal(t, language.English, Base())
	assert.Equal(t, language.English, TagFrom(context.Background()))
	assert.Panics(t, func() { Languages() })
}

func TestTrf(t *testing.T) {
	install(t, newTestBundle(t), false)

	fr := WithTag(context.Background(), language.French)

	assert.Equal(t, "Échec du bloc 42 : timeout", Trf(fr, walletContext, "Failed to get block %llu: %s", 42, "timeout"))
	assert.Equal(t, "Failed to get block 42: timeout", Trf(context.Background(), walletContext, "Failed to get block %llu: %s", 42, "timeout"))
	assert.Equal(t, "Échec du bloc 7 : x", Scope(walletContext).Trf(fr, "Failed to get block %llu: %s", 7, "x"))

	err := NewUserError(fr, walletContext, "Failed to get block %llu: %s", 1, "busy")
	assert.Equal(t, "Échec du bloc 1 : busy", err.Error())
	assert.Equal(t, "Failed to get block %llu: %s", err.Source())
}

func TestTrfUsesCataloguePrinter(t *testing.T) {
	install(t, newTestBundle(t), false)

	fr := WithTag(context.Background(), language.French)

	p, err := Catalog(fr).Printer()
	require.NoError(t, err)

	const source = "Failed to get block %llu: %s"

	assert.Equal(t,
		p.Sprintf(catalog.PrinterKey(walletContext, source), 1234567, "timeout"),
		Trf(fr, walletContext, source, 1234567, "timeout"))
}

func TestTrN(t *testing.T) {
	install(t, newTestBundle(t), false)

	fr := WithTag(context.Background(), language.French)
	ru := WithTag(context.Background(), language.Russian)

	tests := []struct {
		ctx  context.Context
		n    int
		want string
	}{
		{ctx: fr, n: 1, want: "1 sortie trouvée"},
		{ctx: fr, n: 4, want: "4 sorties trouvées"},
		{ctx: ru, n: 1, want: "найден 1 выход"},
		{ctx: ru, n: 3, want: "найдено 3 выхода"},
		{ctx: ru, n: 11, want: "найдено 11 выходов"},
		{ctx: context.Background(), n: 2, want: "2 output(s) found"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TrN(tt.ctx, walletContext, "%n output(s) found", tt.n))
	}

	assert.Equal(t, "найдено 5 выходов", Scope(walletContext).TrN(ru, "%n output(s) found", 5))
}

func TestStrictMissingKeys(t *testing.T) {
	logs := install(t, newTestBundle(t), true)

	fr := WithTag(context.Background(), language.French)

	assert.Equal(t, "⟦daemon is busy⟧", Tr(fr, walletContext, "daemon is busy"))
	assert.Equal(t, "⟦daemon is busy⟧", Tr(fr, walletContext, "daemon is busy"))
	assert.Equal(t, "⟦5 blocks⟧", Trf(fr, walletContext, "%d blocks", 5))
	assert.Equal(t, "Adresse invalide", Tr(fr, walletContext, "Failed to parse address"))

	assert.Equal(t, "daemon is busy", Tr(context.Background(), walletContext, "daemon is busy"),
		"the base language is never missing")

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2, "each missing key is logged once")
	assert.Contains(t, lines[0], `"locale":"fr-FR"`)
	assert.Contains(t, lines[0], `"key":"tools::wallet2\u0004daemon is busy"`)
}

func TestFromRequest(t *testing.T) {
	install(t, newTestBundle(t), false)

	tests := []struct {
		name           string
		target         string
		acceptLanguage string
		want           language.Tag
	}{
		{name: "query", target: "/?lang=ru", acceptLanguage: "fr", want: language.Russian},
		{name: "qt locale name", target: "/?lang=fr_CA", want: language.MustParse("fr-FR")},
		{name: "auto", target: "/?lang=auto", acceptLanguage: "ru-RU,fr;q=0.5", want: language.Russian},
		{name: "header", target: "/", acceptLanguage: "de-DE,fr;q=0.8", want: language.MustParse("fr-FR")},
		{name: "unsupported", target: "/", acceptLanguage: "ja", want: language.English},
		{name: "none", target: "/", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.acceptLanguage != "" {
				r.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			assert.Equal(t, tt.want, FromRequest(r))
			assert.Equal(t, tt.want, TagFrom(WithRequest(context.Background(), r)))
		})
	}

	assert.Equal(t, language.English, FromRequest(nil))
}

func TestEnvPreferences(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{name: "unset", env: map[string]string{}},
		{name: "lang", env: map[string]string{"LANG": "fr_FR.UTF-8"}, want: []string{"fr_FR"}},
		{
			name: "lc_all wins",
			env:  map[string]string{"LANG": "fr_FR.UTF-8", "LC_MESSAGES": "de_DE", "LC_ALL": "ru_RU.KOI8-R@modifier"},
			want: []string{"ru_RU"},
		},
		{
			name: "language list first",
			env:  map[string]string{"LANGUAGE": "pt_BR:pt::en", "LANG": "fr_FR.UTF-8"},
			want: []string{"pt_BR", "pt", "en", "fr_FR"},
		},
		{
			name: "C locale ignores LANGUAGE",
			env:  map[string]string{"LANGUAGE": "fr", "LANG": "C.UTF-8"},
			want: []string{BaseLocale},
		},
		{name: "POSIX", env: map[string]string{"LC_ALL": "POSIX"}, want: []string{BaseLocale}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, EnvPreferences(getenv))
		})
	}
}

func TestFromEnv(t *testing.T) {
	getenv := func(k string) string {
		return map[string]string{"LANG": "fr_BE.UTF-8"}[k]
	}

	assert.Equal(t, language.English, FromEnv(getenv), "before Setup")

	install(t, newTestBundle(t), false)

	assert.Equal(t, language.MustParse("fr-FR"), FromEnv(getenv))
}

func TestSetup(t *testing.T) {
	install(t, nil, false)

	fsys := fstest.MapFS{
		"translations/monero.ts": {Data: []byte(`<TS version="2.1"><context><name>Wallet</name>` +
			`<message><source>Yes</source><translation type="unfinished"></translation></message></context></TS>`)},
		"translations/monero_fr.ts": {Data: []byte(`<TS version="2.1" language="fr"><context><name>Wallet</name>` +
			`<message><source>Yes</source><translation>Oui</translation></message></context></TS>`)},
	}

	require.NoError(t, Setup(context.Background(), fsys, "translations", "monero"))

	assert.Equal(t, []language.Tag{language.English, language.French}, Languages())
	assert.Equal(t, "Oui", Tr(WithTag(context.Background(), language.French), "Wallet", "Yes"))
	assert.NotNil(t, Catalog(WithTag(context.Background(), language.French)))
	assert.Nil(t, Catalog(context.Background()))

	require.Error(t, Setup(context.Background(), fsys, "missing", "monero"))
	assert.Equal(t, "Oui", Tr(WithTag(context.Background(), language.French), "Wallet", "Yes"),
		"a failed Setup keeps the previous catalogues")
}
