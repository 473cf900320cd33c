// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lint

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/tslate/tslate/core/ts"
)

// formattingTags are the elements Qt rich text renders. Anything else in
// angle brackets, such as "<address>" in command help, is plain text.
var formattingTags = map[atom.Atom]bool{
	atom.A: true, atom.B: true, atom.Big: true, atom.Br: true, atom.Code: true,
	atom.Div: true, atom.Em: true, atom.Font: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Hr: true,
	atom.I: true, atom.Img: true, atom.Li: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.S: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Sub: true, atom.Sup: true, atom.Table: true, atom.Td: true, atom.Tr: true,
	atom.Tt: true, atom.U: true, atom.Ul: true,
}

// tagCounts counts the formatting start and end tags in s, keyed as "<b>" and "</b>".
func tagCounts(s string) map[string]int {
	counts := make(map[string]int)

	if !strings.Contains(s, "<") {
		return counts
	}

	z := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return counts
		}

		if tt != html.StartTagToken && tt != html.EndTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, _ := z.TagName()

		a := atom.Lookup(name)
		if !formattingTags[a] {
			continue
		}

		key := "<" + a.String() + ">"
		if tt == html.EndTagToken {
			key = "</" + a.String() + ">"
		}

		counts[key]++
	}
}

func checkMarkup(m *ts.Message) []string {
	src := tagCounts(m.Source)

	var out []string

	for i, text := range forms(m) {
		dst := tagCounts(text)

		union := maps.Clone(src)
		maps.Copy(union, dst)

		keys := slices.Sorted(maps.Keys(union))

		for _, k := range keys {
			if src[k] != dst[k] {
				out = append(out, formLabel(m, i)+fmt.Sprintf("%s appears %d times, source has %d", k, dst[k], src[k]))
			}
		}
	}

	return out
}
