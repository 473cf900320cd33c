// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/ts"
	"codeberg.org/tslate/tslate/server/request_context"
)

// lookupLocale resolves the {locale} path value to a loaded catalogue.
// Both "pt_BR" and "pt-BR" are accepted, and a locale without a catalogue of
// its own matches a close one, so "fr" finds a "fr_FR" file.
func (api *API) lookupLocale(r *http.Request) (*catalog.Catalog, error) {
	b, err := api.loaded(r)
	if err != nil {
		return nil, err
	}

	name := r.PathValue("locale")

	tag, err := catalog.ParseLocale(name)
	if err != nil {
		return nil, userError(r, http.StatusBadRequest, "Invalid locale %q", name)
	}

	c := b.Catalog(tag)
	if c == nil {
		_, c = b.Match(tag)
	}

	if c == nil {
		return nil, userError(r, http.StatusNotFound, "No catalogue for locale %s", tag.String())
	}

	return c, nil
}

// Stats reports message counts for one catalogue, overall and per context.
func (api *API) Stats(w http.ResponseWriter, r *http.Request) error {
	c, err := api.lookupLocale(r)
	if err != nil {
		return err
	}

	return writeJSON(w, c.Stats())
}

// Export renders one catalogue in the format named by the format query
// parameter, "ts" by default. Rendered output is cached per file version.
func (api *API) Export(w http.ResponseWriter, r *http.Request) error {
	c, err := api.lookupLocale(r)
	if err != nil {
		return err
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "ts"
	}

	exporter, ok := api.Registry.Get(format)
	if !ok {
		return userError(r, http.StatusBadRequest, "Unknown format %q", format)
	}

	name := c.Path()
	if name == "" {
		return userError(r, http.StatusNotFound, "No catalogue for locale %s", c.Tag().String())
	}

	info, err := fs.Stat(api.FS, name)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	key := format + ":" + name + ":" + strconv.FormatInt(info.ModTime().UnixNano(), 10)

	data, cached := api.cacheGet(key)
	if !cached {
		f, err := ts.OpenFS(api.FS, name)
		if err != nil {
			return err
		}

		if f.Language == "" {
			f.Language = c.Tag().String()
		}

		data, err = exporter.Export(f)
		if err != nil {
			return err
		}

		api.cacheAdd(key, data)
	}

	request_context.FromRequest(r).Cached = cached

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", ts.TrimExt(path.Base(name))+exporter.Extension()))

	_, err = w.Write(data)

	return err
}

func (api *API) cacheGet(key string) ([]byte, bool) {
	if api.Cache == nil {
		return nil, false
	}

	return api.Cache.Get(key)
}

func (api *API) cacheAdd(key string, data []byte) {
	if api.Cache != nil {
		api.Cache.Add(key, data)
	}
}
