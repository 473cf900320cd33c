// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"strconv"
	"strings"
)

// ToGo rewrites the placeholders of s as Go fmt verbs so that the string can
// be used as a format with the arguments the C++ caller would have passed.
//
// Length modifiers are dropped, %u and %i become %d, %a becomes %x, numbered
// conversions use explicit argument indexes (%2$s becomes %[2]s), Qt markers
// become %[N]v and %n becomes %d. A '%' that is not part of a placeholder is
// escaped so fmt prints it literally.
func ToGo(s string) string {
	phs := Parse(s)
	if len(phs) == 0 && !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + 8)

	pos := 0
	for _, p := range phs {
		writeLiteral(&b, s[pos:p.Offset])
		b.WriteString(goVerb(p))

		pos = p.Offset + len(p.Raw)
	}

	writeLiteral(&b, s[pos:])

	return b.String()
}

// ReplaceCount substitutes the Qt numerus marker (%n or %Ln) with n.
func ReplaceCount(s string, n int) string {
	phs := Parse(s)

	var b strings.Builder

	pos := 0
	for _, p := range phs {
		if p.Kind != Count {
			continue
		}

		b.WriteString(s[pos:p.Offset])
		b.WriteString(strconv.Itoa(n))

		pos = p.Offset + len(p.Raw)
	}

	if pos == 0 {
		return s
	}

	b.WriteString(s[pos:])

	return b.String()
}

// writeLiteral copies text that contains no placeholders, keeping "%%" and
// escaping a lone '%'.
func writeLiteral(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])

			continue
		}

		b.WriteString("%%")

		if i+1 < len(s) && s[i+1] == '%' {
			i++
		}
	}
}

func goVerb(p Placeholder) string {
	switch p.Kind {
	case Qt:
		return "%[" + strconv.Itoa(p.ArgNum) + "]v"
	case Count:
		return "%d"
	}

	var b strings.Builder

	b.WriteByte('%')

	if p.ArgNum > 0 {
		b.WriteString("[" + strconv.Itoa(p.ArgNum) + "]")
	}

	b.WriteString(strings.ReplaceAll(p.Flags, "'", ""))
	b.WriteString(p.Width)

	if p.HasPrec {
		b.WriteString("." + p.Precision)
	}

	switch p.Verb {
	case 'u', 'i':
		b.WriteByte('d')
	case 'a':
		b.WriteByte('x')
	case 'A':
		b.WriteByte('X')
	default:
		b.WriteByte(p.Verb)
	}

	return b.String()
}
