// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/tslate/tslate/config"
	"codeberg.org/tslate/tslate/server/middleware"
	"codeberg.org/tslate/tslate/server/middleware/limiter"
)

// RegisterMiddleware installs the middleware chain configured in config.Global.
func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)       // drop trailing slashes
	router.Use(middleware.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders) // all responses need this

	if config.Global.Limiter.Enabled {
		router.Use(limiter.New(config.Global.Limiter.Rate, config.Global.Limiter.Burst).Evaluate)
	}
}
