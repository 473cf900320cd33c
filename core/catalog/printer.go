// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"

	"codeberg.org/tslate/tslate/core/placeholder"
)

// keySeparator joins a context and a source into a printer key, like gettext's msgctxt.
const keySeparator = "\x04"

// PrinterKey returns the message reference used by [Catalog.Printer] for
// source in context. The fallback is the source converted to a Go format.
func PrinterKey(context, source string) message.Reference {
	return message.Key(context+keySeparator+source, placeholder.ToGo(source))
}

// Printer returns an x/text message printer whose catalogue holds every
// finished translation, converted to Go format verbs. Numbers are formatted
// with the conventions of the catalogue's language. The printer is built on
// first use and shared by later calls.
func (c *Catalog) Printer() (*message.Printer, error) {
	c.printerOnce.Do(func() {
		c.printer, c.printerErr = c.buildPrinter()
	})

	return c.printer, c.printerErr
}

func (c *Catalog) buildPrinter() (*message.Printer, error) {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(c.tag))

	for key, i := range c.index {
		rec := &c.records[i]
		if key.Comment != "" {
			continue
		}

		text := rec.Translation
		if rec.Numerus {
			text = rec.NumerusForms[0]
		}

		if err := builder.SetString(c.tag, key.Context+keySeparator+key.Source, placeholder.ToGo(text)); err != nil {
			return nil, fmt.Errorf("catalog: register %q: %w", key.Source, err)
		}
	}

	return message.NewPrinter(c.tag, message.Catalog(builder)), nil
}

// Sprintf translates source in context and formats it with args through
// [Catalog.Printer]. The C conversions of the translation are rewritten for
// Go and numbers are localised. A missing translation formats the source.
func (c *Catalog) Sprintf(context, source string, args ...any) string {
	if c == nil {
		return message.NewPrinter(language.Und).Sprintf(placeholder.ToGo(source), args...)
	}

	p, err := c.Printer()
	if err != nil {
		return message.NewPrinter(c.tag).Sprintf(placeholder.ToGo(c.Translate(context, source)), args...)
	}

	return p.Sprintf(PrinterKey(context, source), args...)
}
