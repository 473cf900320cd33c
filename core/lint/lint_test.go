// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tslate/tslate/core/ts"
)

func file(msgs ...ts.Message) *ts.File {
	return &ts.File{Language: "fr", Contexts: []ts.Context{{Name: "cryptonote::simple_wallet", Messages: msgs}}}
}

func finished(source, translation string) ts.Message {
	return ts.Message{
		Locations:   []ts.Location{{Filename: "simplewallet.cpp", Line: 42}},
		Source:      source,
		Translation: ts.Translation{Text: translation},
	}
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		msg    ts.Message
		rule   string
		detail []string
	}{
		{
			name: "clean",
			msg:  finished("transaction %s was rejected", "la transaction %s a été rejetée"),
		},
		{
			name:   "placeholder dropped",
			msg:    finished("Failed to get height of block %llu: %s", "Échec : %s"),
			rule:   RulePlaceholder,
			detail: []string{"#1: want %llu, got %s", "#2: missing %s"},
		},
		{
			name:   "placeholder in unfinished text is not checked",
			msg:    ts.Message{Source: "%s", Translation: ts.Translation{Type: ts.Unfinished, Text: "x"}},
			rule:   RuleUnfinished,
			detail: []string{"translation is not marked finished"},
		},
		{
			name:   "empty finished",
			msg:    finished("Failed to parse address", ""),
			rule:   RuleEmptyFinished,
			detail: []string{"finished translation is empty; the source text will be shown"},
		},
		{
			name:   "untranslated",
			msg:    ts.Message{Source: "daemon is busy", Translation: ts.Translation{Type: ts.Unfinished}},
			rule:   RuleUnfinished,
			detail: []string{"not translated"},
		},
		{
			name: "help text brackets are not markup",
			msg:  finished("usage: transfer <address> <amount>", "utilisation : transfer <adresse> <montant>"),
		},
		{
			name:   "markup lost",
			msg:    finished("<b>Warning:</b> wallet is watch-only", "Attention : portefeuille en lecture seule"),
			rule:   RuleMarkup,
			detail: []string{"</b> appears 0 times, source has 1", "<b> appears 0 times, source has 1"},
		},
		{
			name:   "trailing newline",
			msg:    finished("Enter password\n", "Entrez le mot de passe"),
			rule:   RuleWhitespace,
			detail: []string{"trailing newline differs from the source"},
		},
		{
			name: "numerus form may omit count",
			msg: ts.Message{
				Numerus: true,
				Source:  "%n output(s) for %s",
				Translation: ts.Translation{NumerusForms: []string{
					"une sortie pour %s",
					"%n sorties pour %u",
				}},
			},
			rule:   RulePlaceholder,
			detail: []string{"numerus form 1: #1: want %s, got %u"},
		},
		{
			name: "blank numerus form keeps later form numbers",
			msg: ts.Message{
				Numerus: true,
				Source:  "%n output(s) for %s",
				Translation: ts.Translation{NumerusForms: []string{
					"",
					"%n sorties pour %s",
					"%n sorties pour %u",
				}},
			},
			rule:   RulePlaceholder,
			detail: []string{"numerus form 2: #1: want %s, got %u"},
		},
		{
			name: "vanished is skipped",
			msg:  ts.Message{Source: "%s", Translation: ts.Translation{Type: ts.Vanished, Text: "none"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report, err := Check(file(tt.msg), Options{})
			require.NoError(t, err)

			var got []string

			for _, issue := range report.Issues {
				assert.Equal(t, tt.rule, issue.Rule)
				assert.Equal(t, tt.msg.Source, issue.Source)
				got = append(got, issue.Detail)
			}

			assert.Equal(t, tt.detail, got)
		})
	}
}

func TestCheckConflicts(t *testing.T) {
	t.Parallel()

	second := finished("Yes", "Ouais")
	second.Locations[0].Line = 99

	report, err := Check(file(finished("Yes", "Oui"), finished("Yes", "Oui"), second), Options{})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)

	issue := report.Issues[0]
	assert.Equal(t, RuleDuplicateConflict, issue.Rule)
	assert.Equal(t, Error, issue.Severity)
	assert.Equal(t, 99, issue.Location.Line)
	assert.Equal(t, `simplewallet.cpp:99: error [duplicate-conflict] cryptonote::simple_wallet: "Yes": translated as "Ouais" here but "Oui" earlier`, issue.String())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	f := file(
		finished("%s", ""),
		ts.Message{Source: "x", Translation: ts.Translation{Type: ts.Unfinished}},
	)

	report, err := Check(f, Options{Disable: []string{RuleUnfinished}})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleEmptyFinished, report.Issues[0].Rule)

	report, err = Check(f, Options{Rules: []string{RuleUnfinished}})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleUnfinished, report.Issues[0].Rule)

	_, err = Check(f, Options{Rules: []string{"spelling"}})
	require.ErrorIs(t, err, ErrUnknownRule)
}

func TestReport(t *testing.T) {
	t.Parallel()

	r := Report{Issues: []Issue{{Severity: Info}, {Severity: Warning}, {Severity: Warning}}}

	assert.Equal(t, 2, r.Count(Warning))
	assert.Equal(t, 0, r.Count(Error))
	assert.True(t, r.Failed(Warning))
	assert.False(t, r.Failed(Error))
	assert.False(t, Report{}.Failed(Info))
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	for _, s := range []Severity{Info, Warning, Error} {
		var got Severity
		require.NoError(t, got.UnmarshalText([]byte(s.String())))
		assert.Equal(t, s, got)
	}

	sev, err := ParseSeverity(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, Warning, sev)

	_, err = ParseSeverity("fatal")
	require.Error(t, err)
}
