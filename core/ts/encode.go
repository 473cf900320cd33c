// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	indentMessage = "    "
	indentField   = "        "
	indentForm    = "            "
)

// DefaultVersion is the TS format version written when File.Version is empty.
const DefaultVersion = "2.1"

// Encode writes f to w using lupdate's layout and escaping.
func Encode(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	version := f.Version
	if version == "" {
		version = DefaultVersion
	}

	bw.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n<TS version=\"")
	bw.WriteString(escape(version))
	bw.WriteString("\"")

	if f.Language != "" {
		bw.WriteString(" language=\"" + escape(f.Language) + "\"")
	}

	if f.SourceLanguage != "" {
		bw.WriteString(" sourcelanguage=\"" + escape(f.SourceLanguage) + "\"")
	}

	bw.WriteString(">\n")

	for _, c := range f.Contexts {
		writeContext(bw, &c)
	}

	bw.WriteString("</TS>\n")

	return bw.Flush()
}

// EncodeString is a convenience wrapper around Encode.
func EncodeString(f *File) (string, error) {
	var b strings.Builder
	if err := Encode(&b, f); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeContext(bw *bufio.Writer, c *Context) {
	bw.WriteString("<context>\n")
	writeElement(bw, indentMessage, "name", c.Name)

	if c.Comment != "" {
		writeElement(bw, indentMessage, "comment", c.Comment)
	}

	for i := range c.Messages {
		writeMessage(bw, &c.Messages[i])
	}

	bw.WriteString("</context>\n")
}

func writeMessage(bw *bufio.Writer, m *Message) {
	bw.WriteString(indentMessage + "<message")

	if m.ID != "" {
		bw.WriteString(" id=\"" + escape(m.ID) + "\"")
	}

	if m.Numerus {
		bw.WriteString(" numerus=\"yes\"")
	}

	bw.WriteString(">\n")

	for _, l := range m.Locations {
		bw.WriteString(indentField + "<location")

		if l.Filename != "" {
			bw.WriteString(" filename=\"" + escape(l.Filename) + "\"")
		}

		if l.Line > 0 {
			bw.WriteString(" line=\"" + strconv.Itoa(l.Line) + "\"")
		}

		bw.WriteString("/>\n")
	}

	writeElement(bw, indentField, "source", m.Source)
	writeOptional(bw, "oldsource", m.OldSource)
	writeOptional(bw, "comment", m.Comment)
	writeOptional(bw, "oldcomment", m.OldComment)
	writeOptional(bw, "extracomment", m.ExtraComment)
	writeOptional(bw, "translatorcomment", m.TranslatorComment)

	bw.WriteString(indentField + "<translation")

	if m.Translation.Type != Finished {
		bw.WriteString(" type=\"" + string(m.Translation.Type) + "\"")
	}

	bw.WriteString(">")

	if m.Numerus {
		bw.WriteString("\n")

		for _, form := range m.Translation.NumerusForms {
			writeElement(bw, indentForm, "numerusform", form)
		}

		bw.WriteString(indentField)
	} else {
		bw.WriteString(escape(m.Translation.Text))
	}

	bw.WriteString("</translation>\n")
	bw.WriteString(indentMessage + "</message>\n")
}

func writeOptional(bw *bufio.Writer, name, value string) {
	if value != "" {
		writeElement(bw, indentField, name, value)
	}
}

func writeElement(bw *bufio.Writer, indent, name, value string) {
	bw.WriteString(indent + "<" + name + ">")
	bw.WriteString(escape(value))
	bw.WriteString("</" + name + ">\n")
}

// escape protects s the way Qt's TS writer does: the five XML entities are
// named and other control characters become <byte/> elements.
func escape(s string) string {
	if !strings.ContainsAny(s, "&<>\"'\r") && !hasControl(s) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + len(s)/8)

	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '\r':
			// A literal carriage return would be read back as a newline.
			b.WriteString("&#13;")
		default:
			if isControl(r) {
				b.WriteString("<byte value=\"x" + strconv.FormatInt(int64(r), 16) + "\"/>")
			} else {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 && r != '\n' && r != '\r' && r != '\t'
}

func hasControl(s string) bool {
	for i := range len(s) {
		if isControl(rune(s[i])) {
			return true
		}
	}

	return false
}
