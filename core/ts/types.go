// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"errors"
	"strconv"
)

// ErrMalformed is returned when the input is not a well-formed TS document.
var ErrMalformed = errors.New("malformed TS document")

// TranslationType is the value of the type attribute of a <translation> element.
type TranslationType string

// Translation types written by Qt tools. The zero value marks a finished translation.
const (
	Finished   TranslationType = ""
	Unfinished TranslationType = "unfinished"
	Vanished   TranslationType = "vanished"
	Obsolete   TranslationType = "obsolete"
)

// Active reports whether messages of this type are still present in the sources.
func (t TranslationType) Active() bool {
	return t == Finished || t == Unfinished
}

// File is a decoded TS document.
type File struct {
	Version        string
	Language       string // e.g. "fr_FR"; empty for templates
	SourceLanguage string
	Contexts       []Context
}

// Context is a named group of messages.
type Context struct {
	Name     string
	Comment  string
	Messages []Message
}

// Message is a single translatable string.
type Message struct {
	ID                string
	Numerus           bool
	Locations         []Location
	Source            string
	OldSource         string
	Comment           string // disambiguation
	OldComment        string
	ExtraComment      string
	TranslatorComment string
	Translation       Translation
}

// Translation holds the translated text of a message.
// Numerus messages use NumerusForms and leave Text empty.
type Translation struct {
	Type         TranslationType
	Text         string
	NumerusForms []string
}

// Empty reports whether the translation carries no text at all.
func (t Translation) Empty() bool {
	if t.Text != "" {
		return false
	}

	for _, form := range t.NumerusForms {
		if form != "" {
			return false
		}
	}

	return true
}

// Location is a provenance annotation. Line is zero when unknown.
type Location struct {
	Filename string
	Line     int
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.Filename
	}

	return l.Filename + ":" + strconv.Itoa(l.Line)
}

// MessageCount returns the number of messages across all contexts.
func (f *File) MessageCount() int {
	n := 0
	for _, c := range f.Contexts {
		n += len(c.Messages)
	}

	return n
}

// Context returns the context with the given name, or nil.
func (f *File) Context(name string) *Context {
	for i := range f.Contexts {
		if f.Contexts[i].Name == name {
			return &f.Contexts[i]
		}
	}

	return nil
}
