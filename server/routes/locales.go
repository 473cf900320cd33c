// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"math"
	"net/http"

	"golang.org/x/text/language/display"

	"codeberg.org/tslate/tslate/core/catalog"
)

// LocaleInfo describes one supported locale.
type LocaleInfo struct {
	Tag  string `json:"tag"`
	Name string `json:"name"` // autonym, e.g. "français"
	// Base is set for the language of the source strings.
	Base     bool    `json:"base,omitempty"`
	Messages int     `json:"messages"`
	Percent  float64 `json:"percent"`
}

// LocalesResponse is the body of GET /api/v1/locales.
type LocalesResponse struct {
	Base    string       `json:"base"`
	Locales []LocaleInfo `json:"locales"`
}

// loaded returns the installed bundle or a 503 when none is loaded yet.
func (api *API) loaded(r *http.Request) (*catalog.Bundle, error) {
	b := api.bundle()
	if b == nil {
		return nil, userError(r, http.StatusServiceUnavailable, "No catalogues are loaded")
	}

	return b, nil
}

// Locales lists the base language followed by every loaded locale, with
// the share of finished translations.
func (api *API) Locales(w http.ResponseWriter, r *http.Request) error {
	b, err := api.loaded(r)
	if err != nil {
		return err
	}

	resp := LocalesResponse{Base: b.Base().String()}

	for i, tag := range b.Languages() {
		info := LocaleInfo{
			Tag:  tag.String(),
			Name: display.Self.Name(tag),
			Base: i == 0,
		}

		if c := b.Catalog(tag); c != nil {
			info.Messages = c.Len()
			info.Percent = math.Round(c.Stats().Percent()*10) / 10
		} else if info.Base {
			info.Percent = 100
		}

		resp.Locales = append(resp.Locales, info)
	}

	return writeJSON(w, resp)
}
