// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package router assembles the API routes and their middleware chain.
package router

import (
	"net/http"
	"slices"
	"sync"

	"codeberg.org/tslate/tslate/server/middleware"
)

// Router serves an http.ServeMux behind a chain of middleware.
//
// Routes and middleware are registered before the first request. The chain
// is composed once, when that request arrives.
type Router struct {
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	patterns    []string

	compose sync.Once
	handler http.Handler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		mux: http.NewServeMux(),
	}
}

// Use appends a middleware to the chain. The first one registered is the
// outermost.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// Handle registers h for pattern, using http.ServeMux pattern syntax.
func (router *Router) Handle(pattern string, h http.Handler) {
	router.mux.Handle(pattern, h)
	router.patterns = append(router.patterns, pattern)
}

// Patterns returns the registered patterns in registration order.
func (router *Router) Patterns() []string {
	return slices.Clone(router.patterns)
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.compose.Do(func() {
		var h http.Handler = router.mux

		for _, m := range slices.Backward(router.middlewares) {
			next := h
			h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				m(w, r, next)
			})
		}

		router.handler = h
	})

	router.handler.ServeHTTP(w, r)
}
