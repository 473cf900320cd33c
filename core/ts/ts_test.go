// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFR = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="fr_FR">
<context>
    <name>Monero::AddressBookImpl</name>
    <message>
        <location filename="../src/wallet/api/address_book.cpp" line="53"/>
        <source>Invalid destination address</source>
        <translation>Adresse de destination invalide</translation>
    </message>
    <message>
        <location filename="../src/wallet/api/address_book.cpp" line="77"/>
        <source>Integrated address and long payment ID can&apos;t be used at the same time</source>
        <translation>Adresse intégrée et ID de paiement long ne peuvent pas être utilisés en même temps</translation>
    </message>
</context>
<context>
    <name>Monero::PendingTransactionImpl</name>
    <message>
        <location filename="../src/wallet/api/pending_transaction.cpp" line="122"/>
        <source>transaction %s was rejected by daemon with status: </source>
        <translation>la transaction %s a été rejetée par le démon avec le statut : </translation>
    </message>
    <message>
        <source>unsupported transaction format</source>
        <translation type="vanished">format de transaction non supporté</translation>
    </message>
    <message>
        <location filename="../src/wallet/api/pending_transaction.cpp" line="140"/>
        <source>usage: sweep_single [&lt;priority&gt;] &lt;key_image&gt; &lt;address&gt;</source>
        <translation type="unfinished"></translation>
    </message>
</context>
</TS>
`

func TestDecode(t *testing.T) {
	t.Parallel()

	f, err := Decode(strings.NewReader(sampleFR))
	require.NoError(t, err)

	assert.Equal(t, "2.1", f.Version)
	assert.Equal(t, "fr_FR", f.Language)
	require.Len(t, f.Contexts, 2)
	assert.Equal(t, 5, f.MessageCount())

	book := f.Contexts[0]
	assert.Equal(t, "Monero::AddressBookImpl", book.Name)
	assert.Equal(t, "Integrated address and long payment ID can't be used at the same time", book.Messages[1].Source)
	assert.Equal(t, []Location{{Filename: "../src/wallet/api/address_book.cpp", Line: 53}}, book.Messages[0].Locations)

	pending := f.Context("Monero::PendingTransactionImpl")
	require.NotNil(t, pending)
	assert.Equal(t, Finished, pending.Messages[0].Translation.Type)
	assert.Equal(t, "la transaction %s a été rejetée par le démon avec le statut : ", pending.Messages[0].Translation.Text)
	assert.Equal(t, Vanished, pending.Messages[1].Translation.Type)
	assert.Empty(t, pending.Messages[1].Locations)
	assert.Equal(t, Unfinished, pending.Messages[2].Translation.Type)
	assert.True(t, pending.Messages[2].Translation.Empty())
	assert.Equal(t, "usage: sweep_single [<priority>] <key_image> <address>", pending.Messages[2].Source)

	assert.Nil(t, f.Context("missing"))
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not xml", input: "msgid \"\"\nmsgstr \"\"\n"},
		{name: "wrong root", input: `<?xml version="1.0"?><resources><string name="a">b</string></resources>`},
		{name: "unclosed", input: `<TS version="2.1"><context><name>x</name>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeRelativeLocations(t *testing.T) {
	t.Parallel()

	const input = `<TS version="2.1">
<context>
    <name>tools::wallet2</name>
    <message>
        <location filename="../src/wallet/wallet2.cpp" line="+120"/>
        <location line="+8"/>
        <source>a</source>
        <translation></translation>
    </message>
    <message>
        <location filename="../src/wallet/wallet_args.cpp" line="+3"/>
        <location filename="../src/wallet/wallet2.cpp" line="-28"/>
        <source>b</source>
        <translation></translation>
    </message>
</context>
</TS>`

	f, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	msgs := f.Contexts[0].Messages
	assert.Equal(t, []Location{
		{Filename: "../src/wallet/wallet2.cpp", Line: 120},
		{Filename: "../src/wallet/wallet2.cpp", Line: 128},
	}, msgs[0].Locations)
	assert.Equal(t, []Location{
		{Filename: "../src/wallet/wallet_args.cpp", Line: 3},
		{Filename: "../src/wallet/wallet2.cpp", Line: 100},
	}, msgs[1].Locations)
}

func TestDecodeNumerusAndBytes(t *testing.T) {
	t.Parallel()

	const input = `<TS version="2.1" language="fr">
<context>
    <name>sw</name>
    <message numerus="yes">
        <source>%n output(s)</source>
        <translation>
            <numerusform>%n sortie</numerusform>
            <numerusform>%n sorties</numerusform>
        </translation>
    </message>
    <message>
        <source>bell<byte value="x7"/>ring</source>
        <translation>cloche<byte value="7"/></translation>
    </message>
</context>
</TS>`

	f, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	msgs := f.Contexts[0].Messages
	assert.True(t, msgs[0].Numerus)
	assert.Empty(t, msgs[0].Translation.Text)
	assert.Equal(t, []string{"%n sortie", "%n sorties"}, msgs[0].Translation.NumerusForms)

	assert.Equal(t, "bell\x07ring", msgs[1].Source)
	assert.Equal(t, "cloche\x07", msgs[1].Translation.Text)
}

func TestEncodeEscaping(t *testing.T) {
	t.Parallel()

	f := &File{
		Language: "fr_FR",
		Contexts: []Context{{
			Name: "cryptonote::simple_wallet",
			Messages: []Message{{
				Locations:   []Location{{Filename: "../src/simplewallet/simplewallet.cpp", Line: 42}},
				Source:      `Use the "help" command & <don't> panic` + "\x1b",
				Translation: Translation{Type: Unfinished},
			}},
		}},
	}

	out, err := EncodeString(f)
	require.NoError(t, err)

	assert.Contains(t, out, `<TS version="2.1" language="fr_FR">`)
	assert.Contains(t, out, `<source>Use the &quot;help&quot; command &amp; &lt;don&apos;t&gt; panic<byte value="x1b"/></source>`)
	assert.Contains(t, out, `<translation type="unfinished"></translation>`)
	assert.Contains(t, out, `<location filename="../src/simplewallet/simplewallet.cpp" line="42"/>`)
}

// TestRoundTrip checks that decode, encode, decode preserves every
// (context, source, translation) triple and translation type.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	first, err := Decode(strings.NewReader(sampleFR))
	require.NoError(t, err)

	encoded, err := EncodeString(first)
	require.NoError(t, err)

	second, err := Decode(strings.NewReader(encoded))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// The sample is written in lupdate's own layout, so the bytes match too.
	assert.Equal(t, sampleFR, encoded)
}

func TestRoundTripCarriageReturn(t *testing.T) {
	t.Parallel()

	f := &File{
		Version:  DefaultVersion,
		Language: "fr_FR",
		Contexts: []Context{{
			Name: "cryptonote::simple_wallet",
			Messages: []Message{{
				Source:      "Progress: %u%%\r",
				Translation: Translation{Text: "Progression : %u%%\r\nterminé"},
			}},
		}},
	}

	out, err := EncodeString(f)
	require.NoError(t, err)
	assert.Contains(t, out, "<source>Progress: %u%%&#13;</source>")

	decoded, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, f.Contexts[0].Messages[0].Source, decoded.Contexts[0].Messages[0].Source)
	assert.Equal(t, f.Contexts[0].Messages[0].Translation.Text, decoded.Contexts[0].Messages[0].Translation.Text)
}

func TestRoundTripCompressed(t *testing.T) {
	t.Parallel()

	want, err := Decode(strings.NewReader(sampleFR))
	require.NoError(t, err)

	dir := t.TempDir()

	for _, name := range []string{"monero_fr.ts", "monero_fr.ts.gz", "monero_fr.ts.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, want), name)

		got, err := OpenFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestTrimExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "monero_fr", TrimExt("monero_fr.ts"))
	assert.Equal(t, "monero_fr", TrimExt("monero_fr.ts.gz"))
	assert.Equal(t, "monero_fr", TrimExt("monero_fr.ts.zst"))
	assert.True(t, HasExt("monero_fr.ts.zst"))
	assert.False(t, HasExt("monero_fr.qm"))
}
