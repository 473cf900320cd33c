// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lint

import (
	"fmt"
	"iter"
	"strings"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/placeholder"
	"codeberg.org/tslate/tslate/core/ts"
)

// Rule names.
const (
	RulePlaceholder       = "placeholder"
	RuleEmptyFinished     = "empty-finished"
	RuleUnfinished        = "unfinished"
	RuleDuplicateConflict = "duplicate-conflict"
	RuleMarkup            = "markup"
	RuleWhitespace        = "whitespace"
)

// rule checks either one message at a time or the whole file.
type rule struct {
	name     string
	severity Severity
	message  func(m *ts.Message) []string
	file     func(f *ts.File) []Issue
}

var rules = []rule{
	{name: RuleDuplicateConflict, severity: Error, file: checkConflicts},
	{name: RulePlaceholder, severity: Error, message: checkPlaceholders},
	{name: RuleEmptyFinished, severity: Warning, message: checkEmptyFinished},
	{name: RuleUnfinished, severity: Info, message: checkUnfinished},
	{name: RuleMarkup, severity: Warning, message: checkMarkup},
	{name: RuleWhitespace, severity: Warning, message: checkWhitespace},
}

// RuleNames returns the names of every rule, in evaluation order.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}

	return names
}

// forms yields the non-empty translated strings of a finished message.
// Numerus forms keep their position in the translation so that
// [formLabel] names the right form when an earlier one is blank.
func forms(m *ts.Message) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if m.Translation.Type != ts.Finished {
			return
		}

		if !m.Numerus {
			if m.Translation.Text != "" {
				yield(0, m.Translation.Text)
			}

			return
		}

		for i, f := range m.Translation.NumerusForms {
			if f == "" {
				continue
			}

			if !yield(i, f) {
				return
			}
		}
	}
}

func formLabel(m *ts.Message, i int) string {
	if !m.Numerus {
		return ""
	}

	return fmt.Sprintf("numerus form %d: ", i)
}

func checkPlaceholders(m *ts.Message) []string {
	var out []string

	for i, text := range forms(m) {
		for _, mm := range placeholder.Compare(m.Source, text) {
			out = append(out, formLabel(m, i)+mm.String())
		}
	}

	return out
}

func checkEmptyFinished(m *ts.Message) []string {
	if m.Translation.Type != ts.Finished || !m.Translation.Empty() || m.Source == "" {
		return nil
	}

	return []string{"finished translation is empty; the source text will be shown"}
}

func checkUnfinished(m *ts.Message) []string {
	if m.Translation.Type != ts.Unfinished {
		return nil
	}

	if m.Translation.Empty() {
		return []string{"not translated"}
	}

	return []string{"translation is not marked finished"}
}

func checkWhitespace(m *ts.Message) []string {
	var out []string

	for i, text := range forms(m) {
		if strings.HasPrefix(m.Source, "\n") != strings.HasPrefix(text, "\n") {
			out = append(out, formLabel(m, i)+"leading newline differs from the source")
		}

		if strings.HasSuffix(m.Source, "\n") != strings.HasSuffix(text, "\n") {
			out = append(out, formLabel(m, i)+"trailing newline differs from the source")
		}
	}

	return out
}

func checkConflicts(f *ts.File) []Issue {
	// The language attribute is irrelevant here and may not parse.
	unnamed := *f
	unnamed.Language = ""

	c, err := catalog.New(&unnamed)
	if err != nil {
		return nil
	}

	conflicts := c.Conflicts()
	out := make([]Issue, 0, len(conflicts))

	for _, conflict := range conflicts {
		out = append(out, Issue{
			Severity: Error,
			Rule:     RuleDuplicateConflict,
			Context:  conflict.Key.Context,
			Source:   conflict.Key.Source,
			Location: conflict.Location,
			Detail:   fmt.Sprintf("translated as %q here but %q earlier", conflict.Ignored, conflict.Used),
		})
	}

	return out
}
