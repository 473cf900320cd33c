// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"slices"
	"strings"
)

// Key identifies a message within a file. Locations are not part of the key.
type Key struct {
	Context string
	Source  string
	Comment string
}

// Key returns the identity of m inside context ctx.
func (m *Message) Key(ctx string) Key {
	return Key{Context: ctx, Source: m.Source, Comment: m.Comment}
}

// Merge updates existing with the messages found in extracted, following lupdate:
//
//   - a message present in both keeps its translation and translator comment
//     and takes the locations and extracted comments of the new extraction;
//   - a new message is added as unfinished with an empty translation;
//   - a message no longer extracted becomes vanished when it was finished,
//     obsolete when it was unfinished but had text, and is dropped otherwise;
//   - a vanished message that is extracted again becomes finished, and an
//     obsolete one becomes unfinished.
//
// Contexts are sorted by name. Within a context, extracted messages keep the
// extraction order and messages that are no longer extracted follow them.
// Neither input is modified. existing may be nil.
func Merge(existing, extracted *File) *File {
	out := &File{Version: DefaultVersion}

	old := map[Key]*Message{}

	var oldOrder []Key

	if existing != nil {
		out.Version = existing.Version
		out.Language = existing.Language
		out.SourceLanguage = existing.SourceLanguage

		for ci := range existing.Contexts {
			c := &existing.Contexts[ci]
			for mi := range c.Messages {
				k := c.Messages[mi].Key(c.Name)
				if _, dup := old[k]; dup {
					continue
				}

				old[k] = &c.Messages[mi]
				oldOrder = append(oldOrder, k)
			}
		}
	}

	if out.Version == "" {
		out.Version = DefaultVersion
	}

	byContext := map[string]*Context{}
	seen := map[Key]bool{}

	contextFor := func(name string) *Context {
		if c, ok := byContext[name]; ok {
			return c
		}

		c := &Context{Name: name}
		byContext[name] = c

		return c
	}

	for _, ec := range extracted.Contexts {
		c := contextFor(ec.Name)
		if c.Comment == "" {
			c.Comment = ec.Comment
		}

		for _, em := range ec.Messages {
			k := em.Key(ec.Name)
			if seen[k] {
				continue
			}

			seen[k] = true

			m := Message{
				ID:           em.ID,
				Numerus:      em.Numerus,
				Locations:    slices.Clone(em.Locations),
				Source:       em.Source,
				Comment:      em.Comment,
				ExtraComment: em.ExtraComment,
				Translation:  Translation{Type: Unfinished},
			}

			if prev, ok := old[k]; ok {
				m.TranslatorComment = prev.TranslatorComment
				m.OldSource = prev.OldSource
				m.OldComment = prev.OldComment
				m.Translation = Translation{
					Type:         revive(prev.Translation.Type),
					Text:         prev.Translation.Text,
					NumerusForms: slices.Clone(prev.Translation.NumerusForms),
				}
			}

			c.Messages = append(c.Messages, m)
		}
	}

	for _, k := range oldOrder {
		if seen[k] {
			continue
		}

		prev := old[k]

		t, keep := retire(prev.Translation)
		if !keep {
			continue
		}

		m := *prev
		m.Locations = slices.Clone(prev.Locations)
		m.Translation.Type = t
		m.Translation.NumerusForms = slices.Clone(prev.Translation.NumerusForms)

		c := contextFor(k.Context)
		c.Messages = append(c.Messages, m)
	}

	names := make([]string, 0, len(byContext))
	for name := range byContext {
		names = append(names, name)
	}

	slices.SortFunc(names, strings.Compare)

	for _, name := range names {
		out.Contexts = append(out.Contexts, *byContext[name])
	}

	return out
}

func revive(t TranslationType) TranslationType {
	switch t {
	case Vanished:
		return Finished
	case Obsolete:
		return Unfinished
	default:
		return t
	}
}

// retire returns the type of a message that is no longer in the sources and
// whether it is worth keeping.
func retire(t Translation) (TranslationType, bool) {
	switch t.Type {
	case Finished:
		return Vanished, true
	case Unfinished:
		return Obsolete, !t.Empty()
	default:
		return t.Type, true
	}
}
