// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes implements the handlers of the read-only lookup API.

Handlers have the signature func(w, r) error and are wrapped by
middleware.CatchError, which turns returned errors into the JSON error
envelope written by [WriteError].
*/
package routes

import (
	"io/fs"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/convert"
	"codeberg.org/tslate/tslate/core/lrucache"
	"codeberg.org/tslate/tslate/i18n"
)

// API serves the catalogues installed in package i18n. Exports re-read
// the file each catalogue was loaded from, so FS must be the file system
// given to catalog.LoadDir.
type API struct {
	FS       fs.FS
	Registry *convert.Registry
	// Cache holds rendered exports. Nil disables caching.
	Cache *lrucache.Cache
}

// NewAPI returns an API exporting catalogue files from fsys.
func NewAPI(fsys fs.FS, cache *lrucache.Cache) *API {
	return &API{
		FS:       fsys,
		Registry: convert.DefaultRegistry(),
		Cache:    cache,
	}
}

// bundle returns the loaded catalogues. It is never nil once the server runs;
// tests may install one with i18n.SetBundle.
func (api *API) bundle() *catalog.Bundle {
	return i18n.Bundle()
}
