// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/feature/plural"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/ts"
)

// goI18nMessage is one entry of a go-i18n message file.
type goI18nMessage struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
	Zero        string `toml:"zero,omitempty"`
	One         string `toml:"one,omitempty"`
	Two         string `toml:"two,omitempty"`
	Few         string `toml:"few,omitempty"`
	Many        string `toml:"many,omitempty"`
	Other       string `toml:"other,omitempty"`
}

func (m *goI18nMessage) setForm(form plural.Form, text string) {
	switch form {
	case plural.Zero:
		m.Zero = text
	case plural.One:
		m.One = text
	case plural.Two:
		m.Two = text
	case plural.Few:
		m.Few = text
	case plural.Many:
		m.Many = text
	default:
		m.Other = text
	}
}

// MessageID returns the go-i18n message id of a TS message: the context, a
// dot and the first 12 hex digits of the SHA-256 of the source and its
// disambiguation comment.
func MessageID(context, source, comment string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + comment))

	return context + "." + hex.EncodeToString(sum[:])[:12]
}

// ToGoI18n writes the finished translations of f as a go-i18n TOML message
// file. The source text is kept as the description. Numerus forms are mapped
// to CLDR plural categories in the order of the file language's plural rule,
// and the last form also fills "other" when the rule has no such category
// for integers.
func ToGoI18n(f *ts.File) ([]byte, error) {
	c, err := catalog.New(f)
	if err != nil {
		return nil, err
	}

	forms := c.PluralForms()
	messages := make(map[string]goI18nMessage)

	for rec := range c.Records() {
		if !rec.Usable() {
			continue
		}

		id := MessageID(rec.Context, rec.Source, rec.Comment)
		if _, dup := messages[id]; dup {
			continue
		}

		msg := goI18nMessage{ID: id, Description: rec.Source}

		if rec.Numerus {
			for i, text := range rec.NumerusForms {
				if i < len(forms) {
					msg.setForm(forms[i], text)
				}
			}

			if msg.Other == "" {
				msg.Other = rec.NumerusForms[len(rec.NumerusForms)-1]
			}
		} else {
			msg.Other = rec.Translation
		}

		messages[id] = msg
	}

	data, err := toml.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("convert: marshal toml: %w", err)
	}

	return data, nil
}

// GoI18nExporter writes go-i18n TOML message files.
type GoI18nExporter struct{}

func (GoI18nExporter) Format() string      { return "toml" }
func (GoI18nExporter) ContentType() string { return "application/toml; charset=utf-8" }
func (GoI18nExporter) Extension() string   { return ".toml" }

func (GoI18nExporter) Export(f *ts.File) ([]byte, error) {
	return ToGoI18n(f)
}
