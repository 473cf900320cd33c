// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/tslate/tslate/core/lrucache"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string          `json:"status"`
	Locales int             `json:"locales"`
	Cache   *lrucache.Stats `json:"cache,omitempty"`
}

// Healthz reports whether catalogues are loaded.
func (api *API) Healthz(w http.ResponseWriter, r *http.Request) error {
	b, err := api.loaded(r)
	if err != nil {
		return err
	}

	resp := HealthResponse{
		Status:  "ok",
		Locales: len(b.Languages()) - 1,
	}

	if api.Cache != nil {
		s := api.Cache.Stats()
		resp.Cache = &s
	}

	return writeJSON(w, resp)
}

// NotFound answers every unrouted request with a 404.
func (api *API) NotFound(_ http.ResponseWriter, r *http.Request) error {
	return userError(r, http.StatusNotFound, "No such endpoint: %s", r.URL.Path)
}
