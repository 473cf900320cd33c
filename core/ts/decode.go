// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Decode parses a TS document from r.
func Decode(r io.Reader) (*File, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw xmlTS
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMalformed)
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if raw.XMLName.Local != "TS" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <TS>", ErrMalformed, raw.XMLName.Local)
	}

	f := &File{
		Version:        raw.Version,
		Language:       raw.Language,
		SourceLanguage: raw.SourceLanguage,
		Contexts:       make([]Context, 0, len(raw.Contexts)),
	}

	for _, rc := range raw.Contexts {
		f.Contexts = append(f.Contexts, rc.context())
	}

	return f, nil
}

type xmlTS struct {
	XMLName        xml.Name
	Version        string       `xml:"version,attr"`
	Language       string       `xml:"language,attr"`
	SourceLanguage string       `xml:"sourcelanguage,attr"`
	Contexts       []xmlContext `xml:"context"`
}

type xmlContext struct {
	Name     text         `xml:"name"`
	Comment  text         `xml:"comment"`
	Messages []xmlMessage `xml:"message"`
}

type xmlMessage struct {
	ID                string         `xml:"id,attr"`
	Numerus           string         `xml:"numerus,attr"`
	Locations         []xmlLocation  `xml:"location"`
	Source            text           `xml:"source"`
	OldSource         text           `xml:"oldsource"`
	Comment           text           `xml:"comment"`
	OldComment        text           `xml:"oldcomment"`
	ExtraComment      text           `xml:"extracomment"`
	TranslatorComment text           `xml:"translatorcomment"`
	Translation       xmlTranslation `xml:"translation"`
}

type xmlLocation struct {
	Filename *string `xml:"filename,attr"`
	Line     string  `xml:"line,attr"`
}

// context converts a raw context, resolving relative locations the way
// lupdate writes them: a missing filename repeats the previous one, and a
// line starting with '+' or '-' is an offset from the previous line seen
// for that file within the context.
func (rc xmlContext) context() Context {
	c := Context{
		Name:     string(rc.Name),
		Comment:  string(rc.Comment),
		Messages: make([]Message, 0, len(rc.Messages)),
	}

	lastFile := ""
	lastLine := map[string]int{}

	for _, rm := range rc.Messages {
		m := Message{
			ID:                rm.ID,
			Numerus:           rm.Numerus == "yes",
			Source:            string(rm.Source),
			OldSource:         string(rm.OldSource),
			Comment:           string(rm.Comment),
			OldComment:        string(rm.OldComment),
			ExtraComment:      string(rm.ExtraComment),
			TranslatorComment: string(rm.TranslatorComment),
			Translation: Translation{
				Type:         TranslationType(rm.Translation.Type),
				Text:         rm.Translation.Text,
				NumerusForms: rm.Translation.Forms,
			},
		}

		for _, rl := range rm.Locations {
			file := lastFile
			if rl.Filename != nil {
				file = *rl.Filename
			}

			lastFile = file

			line := 0

			if rl.Line != "" {
				n, err := strconv.Atoi(rl.Line)
				if err == nil {
					if rl.Line[0] == '+' || rl.Line[0] == '-' {
						n += lastLine[file]
					}

					line = n
					lastLine[file] = n
				}
			}

			m.Locations = append(m.Locations, Location{Filename: file, Line: line})
		}

		c.Messages = append(c.Messages, m)
	}

	return c
}

// text is character data that may contain <byte value="..."/> elements.
type text string

func (t *text) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	s, err := readText(d)
	*t = text(s)

	return err
}

type xmlTranslation struct {
	Type  string
	Text  string
	Forms []string
}

func (t *xmlTranslation) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "type" {
			t.Type = a.Value
		}
	}

	var b strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch tok := tok.(type) {
		case xml.CharData:
			b.Write(tok)
		case xml.StartElement:
			switch tok.Name.Local {
			case "byte":
				if err := writeByteElement(&b, tok, d); err != nil {
					return err
				}
			case "numerusform":
				form, err := readText(d)
				if err != nil {
					return err
				}

				t.Forms = append(t.Forms, form)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			// Whitespace between <numerusform> elements is layout, not text.
			if len(t.Forms) == 0 {
				t.Text = b.String()
			}

			return nil
		}
	}
}

// readText consumes tokens up to and including the end of the current element.
func readText(d *xml.Decoder) (string, error) {
	var b strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return b.String(), err
		}

		switch tok := tok.(type) {
		case xml.CharData:
			b.Write(tok)
		case xml.StartElement:
			if tok.Name.Local == "byte" {
				if err := writeByteElement(&b, tok, d); err != nil {
					return b.String(), err
				}

				continue
			}

			if err := d.Skip(); err != nil {
				return b.String(), err
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// writeByteElement decodes <byte value="x1b"/> (hex) or <byte value="27"/> (decimal).
func writeByteElement(b *strings.Builder, start xml.StartElement, d *xml.Decoder) error {
	for _, a := range start.Attr {
		if a.Name.Local != "value" {
			continue
		}

		var (
			v   uint64
			err error
		)

		if rest, ok := strings.CutPrefix(a.Value, "x"); ok {
			v, err = strconv.ParseUint(rest, 16, 32)
		} else {
			v, err = strconv.ParseUint(a.Value, 10, 32)
		}

		if err != nil {
			return fmt.Errorf("%w: invalid byte value %q", ErrMalformed, a.Value)
		}

		b.WriteRune(rune(v))
	}

	return d.Skip()
}
