// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/tslate/tslate/server/middleware"
	"codeberg.org/tslate/tslate/server/routes"
)

// DefineRoutes registers the API handlers of api.
func (router *Router) DefineRoutes(api *routes.API) {
	handle := func(pattern string, h func(w http.ResponseWriter, r *http.Request) error) {
		router.Handle(pattern, middleware.CatchError(pattern, h))
	}

	handle("GET /healthz", api.Healthz)

	handle("GET /api/v1/locales", api.Locales)
	handle("GET /api/v1/translate", api.Translate)
	handle("GET /api/v1/catalogs/{locale}/stats", api.Stats)
	handle("GET /api/v1/catalogs/{locale}/export", api.Export)

	// Anything else gets the JSON 404.
	handle("/", api.NotFound)
}

// New returns a router serving api with the configured middleware.
func New(api *routes.API) *Router {
	router := NewRouter()
	router.RegisterMiddleware()
	router.DefineRoutes(api)

	return router
}
