// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package convert

import (
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/tslate/tslate/core/ts"
)

// poHeader is the gettext header written for a given language.
func poHeader(lang string) []byte {
	var b strings.Builder

	b.WriteString("msgid \"\"\nmsgstr \"\"\n")

	if lang != "" {
		fmt.Fprintf(&b, "\"Language: %s\\n\"\n", lang)
	}

	b.WriteString("\"MIME-Version: 1.0\\n\"\n")
	b.WriteString("\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	b.WriteString("\"Content-Transfer-Encoding: 8bit\\n\"\n")
	b.WriteString("\"X-Generator: tslate\\n\"\n")

	return []byte(b.String())
}

// ToPo converts f to a gettext catalogue. The TS context becomes the msgctxt.
// Only finished translations get a msgstr, so unfinished messages stay
// untranslated in gettext tools. Numerus messages export their first form.
// Vanished and obsolete messages are dropped. When a key occurs more than
// once, the first finished translation is kept.
func ToPo(f *ts.File) *gotext.Po {
	return toPo(f, func(s string) string { return s })
}

func toPo(f *ts.File, quote func(string) string) *gotext.Po {
	po := gotext.NewPo()
	po.Parse(poHeader(f.Language))

	domain := po.GetDomain()
	translated := make(map[ts.Key]bool)

	for _, c := range f.Contexts {
		for _, m := range c.Messages {
			if !m.Translation.Type.Active() || m.Comment != "" {
				continue
			}

			key := m.Key(c.Name)
			if translated[key] {
				continue
			}

			var text string

			if m.Translation.Type == ts.Finished {
				text = m.Translation.Text
				if m.Numerus && len(m.Translation.NumerusForms) > 0 {
					text = m.Translation.NumerusForms[0]
				}
			}

			translated[key] = text != ""

			domain.SetC(quote(m.Source), quote(c.Name), quote(text))
		}
	}

	return po
}

// poEscaper escapes what gotext writes verbatim. Newlines are left to
// gotext, which splits them into continuation lines.
var poEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\t", `\t`, "\r", `\r`)

// ParsePo parses gettext catalogue data.
func ParsePo(data []byte) *gotext.Po {
	po := gotext.NewPo()
	po.Parse(data)

	return po
}

// FromPo applies the translations of po to a copy of template and returns it
// as a TS file for lang. A message translated in po becomes finished; any
// other active message keeps its template state. Numerus and disambiguated
// messages are left as they are in the template.
func FromPo(po *gotext.Po, template *ts.File, lang string) *ts.File {
	out := &ts.File{
		Version:        template.Version,
		Language:       lang,
		SourceLanguage: template.SourceLanguage,
		Contexts:       make([]ts.Context, 0, len(template.Contexts)),
	}

	for _, c := range template.Contexts {
		nc := ts.Context{Name: c.Name, Comment: c.Comment, Messages: make([]ts.Message, 0, len(c.Messages))}

		for _, m := range c.Messages {
			if m.Translation.Type.Active() && !m.Numerus && m.Comment == "" && po.IsTranslatedC(m.Source, c.Name) {
				m.Translation = ts.Translation{Text: po.GetC(m.Source, c.Name)}
			}

			nc.Messages = append(nc.Messages, m)
		}

		out.Contexts = append(out.Contexts, nc)
	}

	return out
}

// PoExporter writes gettext PO files.
type PoExporter struct{}

func (PoExporter) Format() string      { return "po" }
func (PoExporter) ContentType() string { return "text/x-gettext-translation; charset=utf-8" }
func (PoExporter) Extension() string   { return ".po" }

func (PoExporter) Export(f *ts.File) ([]byte, error) {
	data, err := toPo(f, poEscaper.Replace).MarshalText()
	if err != nil {
		return nil, fmt.Errorf("convert: marshal po: %w", err)
	}

	return data, nil
}
