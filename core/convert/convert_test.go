// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"strings"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/tslate/tslate/core/ts"
)

func sampleFile() *ts.File {
	return &ts.File{
		Version:  "2.1",
		Language: "fr",
		Contexts: []ts.Context{
			{
				Name: "Wallet",
				Messages: []ts.Message{
					{Source: "Failed to parse address", Translation: ts.Translation{Text: "Échec de l'analyse de l'adresse"}},
					{Source: "daemon is busy", Translation: ts.Translation{Type: ts.Unfinished, Text: "le démon"}},
					{Source: "old", Translation: ts.Translation{Type: ts.Vanished, Text: "vieux"}},
					{
						Source:      "%n output(s)",
						Numerus:     true,
						Translation: ts.Translation{NumerusForms: []string{"%n sortie", "%n sorties"}},
					},
				},
			},
			{
				Name: "tools::wallet2",
				Messages: []ts.Message{
					{Source: "Failed to parse address", Translation: ts.Translation{Text: "Adresse invalide"}},
				},
			},
		},
	}
}

func TestPoRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := PoExporter{}.Export(sampleFile())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `msgctxt "tools::wallet2"`)
	assert.Contains(t, text, `msgid "Failed to parse address"`)
	assert.NotContains(t, text, "vieux", "vanished messages are not exported")

	po := ParsePo(data)
	assert.True(t, po.IsTranslatedC("Failed to parse address", "Wallet"))
	assert.Equal(t, "Adresse invalide", po.GetC("Failed to parse address", "tools::wallet2"))
	assert.False(t, po.IsTranslatedC("daemon is busy", "Wallet"), "unfinished text is not exported")

	template := sampleFile()
	for i := range template.Contexts {
		for j := range template.Contexts[i].Messages {
			m := &template.Contexts[i].Messages[j]
			if !m.Numerus {
				m.Translation = ts.Translation{Type: ts.Unfinished}
			}
		}
	}

	got := FromPo(po, template, "fr_FR")

	assert.Equal(t, "fr_FR", got.Language)
	require.Len(t, got.Contexts, 2)

	wallet := got.Contexts[0].Messages
	assert.Equal(t, ts.Translation{Text: "Échec de l'analyse de l'adresse"}, wallet[0].Translation)
	assert.Equal(t, ts.Unfinished, wallet[1].Translation.Type)
	assert.Equal(t, ts.Unfinished, wallet[2].Translation.Type, "messages missing from the catalogue stay unfinished")
	assert.Equal(t, ts.Translation{Text: "Adresse invalide"}, got.Contexts[1].Messages[0].Translation)

	assert.Equal(t, ts.Unfinished, template.Contexts[0].Messages[0].Translation.Type, "template is not modified")
}

func TestPoDuplicateKeys(t *testing.T) {
	t.Parallel()

	f := &ts.File{
		Language: "fr",
		Contexts: []ts.Context{
			{
				Name: "tools::wallet2",
				Messages: []ts.Message{
					{Source: "Daemon is busy", Translation: ts.Translation{Type: ts.Unfinished}},
					{Source: "Daemon is busy", Translation: ts.Translation{Text: "Le démon est occupé"}},
					{Source: "Daemon is busy", Translation: ts.Translation{Type: ts.Unfinished, Text: "brouillon"}},
				},
			},
		},
	}

	data, err := PoExporter{}.Export(f)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `msgstr "Le démon est occupé"`)
	assert.Equal(t, 1, strings.Count(text, `msgid "Daemon is busy"`))
	assert.Equal(t, "Le démon est occupé", ParsePo(data).GetC("Daemon is busy", "tools::wallet2"))
}

func TestPoEscaping(t *testing.T) {
	t.Parallel()

	source := "Use \"quotes\" and C:\\wallet\tnow"
	translation := "Utilisez \"guillemets\" et C:\\wallet\tmaintenant\r"

	f := &ts.File{
		Language: "fr",
		Contexts: []ts.Context{{
			Name:     "cryptonote::simple_wallet",
			Messages: []ts.Message{{Source: source, Translation: ts.Translation{Text: translation}}},
		}},
	}

	data, err := PoExporter{}.Export(f)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `msgid "Use \"quotes\" and C:\\wallet\tnow"`)
	assert.Contains(t, text, `msgstr "Utilisez \"guillemets\" et C:\\wallet\tmaintenant\r"`)
	assert.NotContains(t, text, "\t", "tabs are escaped")

	assert.Equal(t, translation, ParsePo(data).GetC(source, "cryptonote::simple_wallet"))
}

func TestGoI18n(t *testing.T) {
	t.Parallel()

	data, err := ToGoI18n(sampleFile())
	require.NoError(t, err)

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	mf, err := bundle.ParseMessageFileBytes(data, "active.fr.toml")
	require.NoError(t, err)
	assert.Len(t, mf.Messages, 3, "only finished translations are exported")

	loc := i18n.NewLocalizer(bundle, "fr")

	got, err := loc.Localize(&i18n.LocalizeConfig{MessageID: MessageID("Wallet", "Failed to parse address", "")})
	require.NoError(t, err)
	assert.Equal(t, "Échec de l'analyse de l'adresse", got)

	got, err = loc.Localize(&i18n.LocalizeConfig{MessageID: MessageID("tools::wallet2", "Failed to parse address", "")})
	require.NoError(t, err)
	assert.Equal(t, "Adresse invalide", got)

	id := MessageID("Wallet", "%n output(s)", "")

	got, err = loc.Localize(&i18n.LocalizeConfig{MessageID: id, PluralCount: 1})
	require.NoError(t, err)
	assert.Equal(t, "%n sortie", got)

	got, err = loc.Localize(&i18n.LocalizeConfig{MessageID: id, PluralCount: 5})
	require.NoError(t, err)
	assert.Equal(t, "%n sorties", got)
}

func TestMessageID(t *testing.T) {
	t.Parallel()

	a := MessageID("Wallet", "Open", "")
	b := MessageID("Wallet", "Open", "verb")

	assert.True(t, strings.HasPrefix(a, "Wallet."))
	assert.Len(t, a, len("Wallet.")+12)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, MessageID("Wallet", "Open", ""))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	assert.Equal(t, []string{"po", "toml", "ts"}, r.Formats())

	data, err := r.Export("ts", sampleFile())
	require.NoError(t, err)

	decoded, err := ts.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, sampleFile().Contexts[1].Messages[0].Translation, decoded.Contexts[1].Messages[0].Translation)

	_, err = r.Export("xliff", sampleFile())
	require.ErrorIs(t, err, ErrUnknownFormat)

	e, ok := r.Get("toml")
	require.True(t, ok)
	assert.Equal(t, ".toml", e.Extension())
}
