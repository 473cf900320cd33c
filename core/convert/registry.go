// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package convert turns TS files into other translation formats and back.
package convert

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"codeberg.org/tslate/tslate/core/ts"
)

// ErrUnknownFormat is returned by Registry.Export for an unregistered format.
var ErrUnknownFormat = errors.New("convert: unknown format")

// Exporter writes a TS file in another format.
type Exporter interface {
	// Format is the short name used on the command line and in URLs, e.g. "po".
	Format() string
	// ContentType is the MIME type of the output.
	ContentType() string
	// Extension is the file extension of the output, including the dot.
	Extension() string
	Export(f *ts.File) ([]byte, error)
}

// Registry looks up exporters by format name.
type Registry struct {
	byFormat map[string]Exporter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: map[string]Exporter{}}
}

// DefaultRegistry returns a registry holding the ts, po and toml exporters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TSExporter{})
	r.Register(PoExporter{})
	r.Register(GoI18nExporter{})

	return r
}

// Register adds e, replacing any exporter with the same format.
func (r *Registry) Register(e Exporter) {
	r.byFormat[e.Format()] = e
}

// Get returns the exporter for format.
func (r *Registry) Get(format string) (Exporter, bool) {
	e, ok := r.byFormat[format]

	return e, ok
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	return slices.Sorted(maps.Keys(r.byFormat))
}

// Export converts f with the exporter registered for format.
func (r *Registry) Export(format string, f *ts.File) ([]byte, error) {
	e, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w %q, want one of %v", ErrUnknownFormat, format, r.Formats())
	}

	return e.Export(f)
}

// TSExporter re-encodes the file as TS.
type TSExporter struct{}

func (TSExporter) Format() string      { return "ts" }
func (TSExporter) ContentType() string { return "application/x-linguist+xml; charset=utf-8" }
func (TSExporter) Extension() string   { return ts.Ext }

func (TSExporter) Export(f *ts.File) ([]byte, error) {
	s, err := ts.EncodeString(f)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}
