// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import "strconv"

// Argument classes.
const (
	argString byte = iota
	argInt
	argUint
	argFloat
)

// Args converts textual values, such as command line arguments, to the types
// the placeholders of format consume: int64 for d, i, c and the numerus
// count, uint64 for u, o, x and X, float64 for e, f, g and a, and string for
// anything else. Explicit argument numbers and '*' widths are honoured the
// way fmt counts them. A value that does not parse stays a string.
func Args(format string, values []string) []any {
	classes := make(map[int]byte)

	set := func(i int, class byte) {
		if _, ok := classes[i]; !ok {
			classes[i] = class
		}
	}

	next := 0

	for _, p := range Parse(format) {
		switch p.Kind {
		case Qt:
			continue
		case Count:
			set(next, argInt)
			next++

			continue
		}

		if p.ArgNum > 0 {
			set(p.ArgNum-1, verbClass(p.Verb))
			next = p.ArgNum

			continue
		}

		if p.Width == "*" {
			set(next, argInt)
			next++
		}

		if p.HasPrec && p.Precision == "*" {
			set(next, argInt)
			next++
		}

		set(next, verbClass(p.Verb))
		next++
	}

	out := make([]any, len(values))
	for i, v := range values {
		out[i] = convertArg(v, classes[i])
	}

	return out
}

func verbClass(verb byte) byte {
	switch verb {
	case 'd', 'i', 'c':
		return argInt
	case 'u', 'o', 'x', 'X':
		return argUint
	case 'e', 'E', 'f', 'F', 'g', 'G', 'a', 'A':
		return argFloat
	default:
		return argString
	}
}

func convertArg(v string, class byte) any {
	switch class {
	case argInt:
		if n, err := strconv.ParseInt(v, 0, 64); err == nil {
			return n
		}
	case argUint:
		if n, err := strconv.ParseUint(v, 0, 64); err == nil {
			return n
		}

		if n, err := strconv.ParseInt(v, 0, 64); err == nil {
			return n
		}
	case argFloat:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	return v
}
