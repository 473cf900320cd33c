// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/config"
	"codeberg.org/tslate/tslate/core/audit"
	"codeberg.org/tslate/tslate/server/request_context"
	"codeberg.org/tslate/tslate/server/routes"
)

// CatchError wraps an API handler that returns an error, providing
// centralized error handling, response buffering and request logging.
//
// The handler's output is buffered in an httptest.ResponseRecorder. When
// the handler returns an error, the buffer is discarded and the JSON error
// envelope is written instead, with the status carried by a
// routes.StatusError or 500 for any other error. Otherwise the buffered
// response is copied to the client.
//
// route is the pattern the handler is registered under; it names the span.
func CatchError(route string, handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Route:     route,
			RequestID: ctx.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
			Locale:    ctx.T.String(),
		}

		_ = span.Begin(r.Context())

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err

		if err != nil {
			ctx.StatusCode = routes.StatusOf(err)

			span.End()
			routes.WriteError(w, r, ctx.StatusCode, err)
		} else {
			ctx.StatusCode = recorder.Code
			span.Size = recorder.Body.Len()

			// The Server-Timing header is written with the response headers,
			// so the metric has to be complete before they are sent.
			span.End()
			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError
		span.Cached = ctx.Cached

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}
