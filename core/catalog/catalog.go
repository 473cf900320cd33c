// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog indexes decoded TS files into read-only lookup tables.

A Catalog answers "what is the translation of source in context" for one
locale. Only finished, non-empty translations are returned; anything else
falls back to the source text unchanged, so the caller always has something
to display. Locations never take part in the lookup key.

A Bundle groups the catalogues of several locales behind a language matcher.
*/
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/tslate/tslate/core/ts"
)

var (
	// ErrNilFile is returned by New when no file is given.
	ErrNilFile = errors.New("catalog: nil file")

	// ErrLanguage is returned when a locale name cannot be parsed as a language tag.
	ErrLanguage = errors.New("catalog: invalid language")
)

// Record is one message as loaded from the file, including messages that do
// not take part in lookups.
type Record struct {
	Context      string
	Source       string
	Comment      string // disambiguation
	Translation  string
	NumerusForms []string
	Numerus      bool
	Type         ts.TranslationType
	Locations    []ts.Location
}

// Usable reports whether the record would be returned by a lookup.
func (r *Record) Usable() bool {
	if r.Type != ts.Finished {
		return false
	}

	if r.Numerus {
		return len(r.NumerusForms) > 0 && r.NumerusForms[0] != ""
	}

	return r.Translation != ""
}

// Conflict reports a key with more than one distinct finished translation.
// The first one in file order is used for lookups.
type Conflict struct {
	Key      ts.Key
	Used     string
	Ignored  string
	Location ts.Location
}

// Catalog is an immutable lookup table for one locale.
// It is safe for concurrent use.
type Catalog struct {
	tag       language.Tag
	path      string
	records   []Record
	index     map[ts.Key]int
	conflicts []Conflict
	forms     []plural.Form

	printerOnce sync.Once
	printer     *message.Printer
	printerErr  error
}

// Option configures New.
type Option func(*Catalog)

// WithTag overrides the language attribute of the file.
func WithTag(tag language.Tag) Option {
	return func(c *Catalog) {
		c.tag = tag
	}
}

// WithPath records the file the catalogue was loaded from.
func WithPath(name string) Option {
	return func(c *Catalog) {
		c.path = name
	}
}

// New builds a catalogue from f. The language is taken from the file's
// language attribute unless [WithTag] is given. f is not retained.
func New(f *ts.File, opts ...Option) (*Catalog, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	c := &Catalog{
		index: make(map[ts.Key]int),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tag == (language.Tag{}) && f.Language != "" {
		tag, err := ParseLocale(f.Language)
		if err != nil {
			return nil, err
		}

		c.tag = tag
	}

	c.forms = pluralForms(c.tag)
	c.records = make([]Record, 0, f.MessageCount())

	for _, ctx := range f.Contexts {
		for _, m := range ctx.Messages {
			c.add(ctx.Name, &m)
		}
	}

	return c, nil
}

func (c *Catalog) add(context string, m *ts.Message) {
	rec := Record{
		Context:      context,
		Source:       m.Source,
		Comment:      m.Comment,
		Translation:  m.Translation.Text,
		NumerusForms: slices.Clone(m.Translation.NumerusForms),
		Numerus:      m.Numerus,
		Type:         m.Translation.Type,
		Locations:    slices.Clone(m.Locations),
	}

	c.records = append(c.records, rec)

	if !rec.Usable() {
		return
	}

	key := m.Key(context)

	prev, ok := c.index[key]
	if !ok {
		c.index[key] = len(c.records) - 1

		return
	}

	used := c.records[prev]
	if used.Translation != rec.Translation || !slices.Equal(used.NumerusForms, rec.NumerusForms) {
		conflict := Conflict{Key: key, Used: used.text(), Ignored: rec.text()}
		if len(rec.Locations) > 0 {
			conflict.Location = rec.Locations[0]
		}

		c.conflicts = append(c.conflicts, conflict)
	}
}

func (r *Record) text() string {
	if r.Numerus {
		return strings.Join(r.NumerusForms, " | ")
	}

	return r.Translation
}

// Tag returns the language of the catalogue.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// Path returns the name of the file the catalogue was loaded from by
// [LoadDir], or "" for a catalogue built directly with [New].
func (c *Catalog) Path() string {
	return c.path
}

// Len returns the number of keys that resolve to a translation.
func (c *Catalog) Len() int {
	return len(c.index)
}

// Lookup returns the finished translation of source in context.
// For a numerus message, the first form is returned.
func (c *Catalog) Lookup(context, source string) (string, bool) {
	return c.LookupDisambiguated(context, source, "")
}

// LookupDisambiguated is Lookup for messages that carry a disambiguation comment.
func (c *Catalog) LookupDisambiguated(context, source, comment string) (string, bool) {
	rec := c.get(context, source, comment)
	if rec == nil {
		return "", false
	}

	if rec.Numerus {
		return rec.NumerusForms[0], true
	}

	return rec.Translation, true
}

// Translate returns the translation of source in context, or source itself
// when there is no finished translation. It never returns an empty string
// for a non-empty source.
func (c *Catalog) Translate(context, source string) string {
	if c == nil {
		return source
	}

	if s, ok := c.Lookup(context, source); ok {
		return s
	}

	return source
}

func (c *Catalog) get(context, source, comment string) *Record {
	if c == nil {
		return nil
	}

	i, ok := c.index[ts.Key{Context: context, Source: source, Comment: comment}]
	if !ok {
		return nil
	}

	return &c.records[i]
}

// Records iterates over every loaded message in file order, including
// unfinished, vanished and obsolete ones.
func (c *Catalog) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range c.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Conflicts returns keys that had more than one distinct finished translation.
func (c *Catalog) Conflicts() []Conflict {
	out := make([]Conflict, len(c.conflicts))
	copy(out, c.conflicts)

	return out
}

// ParseLocale parses a Qt-style locale name ("fr_FR", "zh-cn") as a language tag.
func ParseLocale(name string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %w", ErrLanguage, name, err)
	}

	return tag, nil
}
