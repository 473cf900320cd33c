// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/core/ts"
)

const walletDE = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1">
<context>
    <name>Wallet</name>
    <message>
        <source>Failed to parse address</source>
        <translation>Adresse konnte nicht gelesen werden</translation>
    </message>
</context>
</TS>
`

const walletTemplate = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1">
<context>
    <name>Wallet</name>
    <message>
        <source>Failed to parse address</source>
        <translation type="unfinished"></translation>
    </message>
</context>
</TS>
`

func zstdBytes(t *testing.T, s string) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	defer enc.Close()

	return enc.EncodeAll([]byte(s), nil)
}

func testFS(t *testing.T) fstest.MapFS {
	t.Helper()

	return fstest.MapFS{
		"translations/monero.ts":        {Data: []byte(walletTemplate)},
		"translations/monero_fr.ts":     {Data: []byte(walletFR)},
		"translations/monero_de.ts.zst": {Data: zstdBytes(t, walletDE)},
		"translations/other_it.ts":      {Data: []byte("not even xml")},
		"translations/README.md":        {Data: []byte("# translations")},
	}
}

func TestLocaleFromName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale string
		ok     bool
	}{
		{name: "monero_fr.ts", locale: "fr", ok: true},
		{name: "monero_pt_BR.ts", locale: "pt_BR", ok: true},
		{name: "monero_zh-cn.ts.gz", locale: "zh-cn", ok: true},
		{name: "monero.ts"},
		{name: "monero_.ts"},
		{name: "wallet_fr.ts"},
		{name: "monero_fr.po"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			locale, ok := LocaleFromName(tt.name, "monero")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.locale, locale)
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	b, err := LoadDir(context.Background(), testFS(t), "translations", "monero", language.English)
	require.NoError(t, err)

	assert.Equal(t, language.English, b.Base())
	assert.Equal(t,
		[]language.Tag{language.English, language.German, language.MustParse("fr-FR")},
		b.Languages(),
		"file language attributes win over file names",
	)

	tests := []struct {
		name string
		tag  language.Tag
		want string
	}{
		{name: "exact", tag: language.MustParse("fr-FR"), want: "Échec de l'analyse de l'adresse"},
		{name: "base language of a regional catalogue", tag: language.French, want: "Échec de l'analyse de l'adresse"},
		{name: "compressed file", tag: language.German, want: "Adresse konnte nicht gelesen werden"},
		{name: "regional variant", tag: language.MustParse("de-AT"), want: "Adresse konnte nicht gelesen werden"},
		{name: "base locale", tag: language.English, want: "Failed to parse address"},
		{name: "unconfigured locale", tag: language.Japanese, want: "Failed to parse address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, b.Translate(tt.tag, "Wallet", "Failed to parse address"))
		})
	}
}

func TestLoadDirErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadDir(context.Background(), fstest.MapFS{}, "missing", "monero", language.English)
	require.Error(t, err)

	_, err = LoadDir(context.Background(), testFS(t), "translations", "wallet", language.English)
	require.ErrorIs(t, err, ErrNoCatalogs)

	broken := testFS(t)
	broken["translations/monero_it.ts"] = &fstest.MapFile{Data: []byte("<TS><context>")}

	_, err = LoadDir(context.Background(), broken, "translations", "monero", language.English)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monero_it.ts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = LoadDir(ctx, testFS(t), "translations", "monero", language.English)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatchStrings(t *testing.T) {
	t.Parallel()

	b, err := LoadDir(context.Background(), testFS(t), "translations", "monero", language.English)
	require.NoError(t, err)

	tag, c := b.MatchStrings("ja, de;q=0.8, en;q=0.5")
	assert.Equal(t, language.German, tag)
	require.NotNil(t, c)

	tag, c = b.MatchStrings("fr_FR")
	assert.Equal(t, language.MustParse("fr-FR"), tag)
	assert.NotNil(t, c)

	tag, c = b.MatchStrings("!!!", "")
	assert.Equal(t, language.English, tag)
	assert.Nil(t, c)

	assert.Nil(t, b.Catalog(language.Japanese))
	assert.NotNil(t, b.Catalog(language.German))
}

func TestNewBundleDuplicate(t *testing.T) {
	t.Parallel()

	a, err := New(&ts.File{Language: "fr"})
	require.NoError(t, err)

	b, err := New(&ts.File{Language: "fr"})
	require.NoError(t, err)

	_, err = NewBundle(language.English, a, b)
	require.ErrorIs(t, err, ErrDuplicateLocale)
}
