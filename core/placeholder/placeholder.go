// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package placeholder finds runtime format placeholders in message strings and
checks that translations keep them.

Two families are recognised:

  - C printf conversions: %[argnum$][flags][width][.precision][length]verb,
    for example %s, %u, %llu, %21s or %2$s. "%%" is a literal percent sign and
    a '%' that does not start a valid conversion is plain text.
  - Qt markers: %1 to %99 (optionally %L1), and the numerus count %n (%Ln).
*/
package placeholder

import (
	"strconv"
	"strings"
)

// Kind is the placeholder family.
type Kind int

const (
	// Printf is a C printf conversion.
	Printf Kind = iota + 1
	// Qt is a numbered Qt marker such as %1.
	Qt
	// Count is the Qt numerus count marker %n.
	Count
)

func (k Kind) String() string {
	switch k {
	case Printf:
		return "printf"
	case Qt:
		return "qt"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// Placeholder is one parsed placeholder.
type Placeholder struct {
	Kind      Kind
	Raw       string // exact text, e.g. "%21s"
	Offset    int    // byte offset in the parsed string
	ArgNum    int    // explicit argument number (%2$s, %2); zero if implicit
	Flags     string
	Width     string // digits or "*"
	Precision string // digits or "*", without the dot; empty if absent
	HasPrec   bool
	Length    string // hh, h, l, ll, L, q, j, z, t
	Verb      byte
}

// Signature identifies the argument a placeholder consumes. Flags, width and
// precision digits are presentation details and do not take part; '*' does,
// because it consumes an extra int argument.
func (p Placeholder) Signature() string {
	switch p.Kind {
	case Qt:
		return "%" + strconv.Itoa(p.ArgNum)
	case Count:
		return "%n"
	}

	var b strings.Builder

	b.WriteByte('%')

	if p.Width == "*" {
		b.WriteByte('*')
	}

	if p.HasPrec && p.Precision == "*" {
		b.WriteString(".*")
	}

	b.WriteString(p.Length)

	verb := p.Verb
	if verb == 'i' {
		verb = 'd'
	}

	b.WriteByte(verb)

	return b.String()
}

const (
	printfFlags = "-+ #0'"
	printfVerbs = "diouxXeEfFgGaAcsp"
	maxQtArg    = 99
)

// Parse returns the placeholders in s, in order of appearance.
func Parse(s string) []Placeholder {
	var out []Placeholder

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}

		if i+1 < len(s) && s[i+1] == '%' {
			i++

			continue
		}

		if p, ok := parseQtCount(s, i); ok {
			out = append(out, p)
			i += len(p.Raw) - 1

			continue
		}

		if p, ok := parsePrintf(s, i); ok {
			out = append(out, p)
			i += len(p.Raw) - 1

			continue
		}

		if p, ok := parseQtArg(s, i); ok {
			out = append(out, p)
			i += len(p.Raw) - 1
		}
	}

	return out
}

func parseQtCount(s string, start int) (Placeholder, bool) {
	j := start + 1
	if j < len(s) && s[j] == 'L' {
		j++
	}

	if j < len(s) && s[j] == 'n' {
		return Placeholder{Kind: Count, Raw: s[start : j+1], Offset: start}, true
	}

	return Placeholder{}, false
}

func parseQtArg(s string, start int) (Placeholder, bool) {
	j := start + 1
	if j < len(s) && s[j] == 'L' {
		j++
	}

	digits := digitsAt(s, j)
	if digits == "" || digits[0] == '0' {
		return Placeholder{}, false
	}

	// Qt only reads up to two digits; "%123" is %12 followed by "3".
	if len(digits) > 2 {
		digits = digits[:2]
	}

	n, _ := strconv.Atoi(digits)
	if n > maxQtArg {
		return Placeholder{}, false
	}

	end := j + len(digits)

	return Placeholder{Kind: Qt, Raw: s[start:end], Offset: start, ArgNum: n}, true
}

func parsePrintf(s string, start int) (Placeholder, bool) {
	p := Placeholder{Kind: Printf, Offset: start}
	j := start + 1

	// %n$ argument number.
	if d := digitsAt(s, j); d != "" && j+len(d) < len(s) && s[j+len(d)] == '$' {
		p.ArgNum, _ = strconv.Atoi(d)
		j += len(d) + 1
	}

	flagStart := j
	for j < len(s) && strings.IndexByte(printfFlags, s[j]) >= 0 {
		j++
	}

	p.Flags = s[flagStart:j]

	if j < len(s) && s[j] == '*' {
		p.Width = "*"
		j++
	} else if d := digitsAt(s, j); d != "" {
		p.Width = d
		j += len(d)
	}

	if j < len(s) && s[j] == '.' {
		p.HasPrec = true
		j++

		if j < len(s) && s[j] == '*' {
			p.Precision = "*"
			j++
		} else if d := digitsAt(s, j); d != "" {
			p.Precision = d
			j += len(d)
		}
	}

	p.Length, j = lengthAt(s, j)

	if j >= len(s) || strings.IndexByte(printfVerbs, s[j]) < 0 {
		return Placeholder{}, false
	}

	p.Verb = s[j]
	p.Raw = s[start : j+1]

	return p, true
}

func lengthAt(s string, j int) (string, int) {
	for _, l := range []string{"hh", "ll", "h", "l", "L", "q", "j", "z", "t"} {
		if strings.HasPrefix(s[j:], l) {
			return l, j + len(l)
		}
	}

	return "", j
}

func digitsAt(s string, j int) string {
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}

	return s[j:k]
}
