// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lint validates the translations of a TS file before release.

The most important rule is "placeholder": a finished translation that drops,
adds or retypes a printf conversion crashes or garbles the program at
runtime, so it is reported as an error. Other rules catch problems that only
degrade output.
*/
package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"codeberg.org/tslate/tslate/core/ts"
)

// ErrUnknownRule is returned when a rule name is not registered.
var ErrUnknownRule = errors.New("lint: unknown rule")

// Severity ranks an issue.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	parsed, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseSeverity parses "info", "warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("lint: invalid severity %q", s)
	}
}

// Issue is one finding.
type Issue struct {
	Severity Severity    `json:"severity"`
	Rule     string      `json:"rule"`
	Context  string      `json:"context"`
	Source   string      `json:"source"`
	Location ts.Location `json:"location"`
	Detail   string      `json:"detail"`
}

func (i Issue) String() string {
	var b strings.Builder

	if loc := i.Location.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}

	fmt.Fprintf(&b, "%s [%s] %s: %q: %s", i.Severity, i.Rule, i.Context, i.Source, i.Detail)

	return b.String()
}

// Report is the result of a Check.
type Report struct {
	Language string  `json:"language"`
	Issues   []Issue `json:"issues"`
}

// Count returns the number of issues with severity sev.
func (r Report) Count(sev Severity) int {
	n := 0

	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}

	return n
}

// Failed reports whether any issue is at least as severe as minimum.
func (r Report) Failed(minimum Severity) bool {
	return slices.ContainsFunc(r.Issues, func(i Issue) bool {
		return i.Severity >= minimum
	})
}

// Options selects the rules to run.
type Options struct {
	// Rules lists the rule names to run. Empty means all rules.
	Rules []string
	// Disable lists rule names to skip.
	Disable []string
}

func (o Options) enabled(name string) bool {
	if slices.Contains(o.Disable, name) {
		return false
	}

	return len(o.Rules) == 0 || slices.Contains(o.Rules, name)
}

func (o Options) validate() error {
	for _, name := range slices.Concat(o.Rules, o.Disable) {
		if !slices.Contains(RuleNames(), name) {
			return fmt.Errorf("%w: %q", ErrUnknownRule, name)
		}
	}

	return nil
}

// Check runs the selected rules over f. Issues are reported in file order.
// Vanished and obsolete messages are not checked.
func Check(f *ts.File, opts Options) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, err
	}

	report := Report{Language: f.Language}

	var active []rule

	for _, r := range rules {
		if !opts.enabled(r.name) {
			continue
		}

		if r.file != nil {
			report.Issues = append(report.Issues, r.file(f)...)

			continue
		}

		active = append(active, r)
	}

	for _, c := range f.Contexts {
		for i := range c.Messages {
			m := &c.Messages[i]
			if !m.Translation.Type.Active() {
				continue
			}

			for _, r := range active {
				for _, detail := range r.message(m) {
					report.Issues = append(report.Issues, newIssue(r, c.Name, m, detail))
				}
			}
		}
	}

	return report, nil
}

func newIssue(r rule, context string, m *ts.Message, detail string) Issue {
	issue := Issue{
		Severity: r.severity,
		Rule:     r.name,
		Context:  context,
		Source:   m.Source,
		Detail:   detail,
	}

	if len(m.Locations) > 0 {
		issue.Location = m.Locations[0]
	}

	return issue
}
