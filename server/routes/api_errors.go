// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/i18n"
	"codeberg.org/tslate/tslate/server/request_context"
)

// errContext is the translation context of the API's own messages.
const errContext = "tslate::api"

// StatusError is an error that carries the HTTP status to answer with.
// Handlers return it for client errors; anything else becomes a 500.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// userError builds a StatusError whose message is translated into the
// request locale.
func userError(r *http.Request, status int, source string, args ...any) *StatusError {
	return &StatusError{
		Status: status,
		Err:    i18n.NewUserError(r.Context(), errContext, source, args...),
	}
}

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Error struct {
		Status    int    `json:"status"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// StatusOf returns the status for err: the one carried by a StatusError,
// otherwise 500.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}

	return http.StatusInternalServerError
}

// WriteError writes the JSON error envelope for status.
//
// Only translated user errors are shown as is. Other errors are logged by
// the caller and replaced by the translated status text, so internal
// details such as file paths do not leak.
func WriteError(w http.ResponseWriter, r *http.Request, status int, err error) {
	rc := request_context.FromRequest(r)

	var body ErrorBody

	body.Error.Status = status
	body.Error.RequestID = rc.RequestID

	var ue *i18n.UserError
	if errors.As(err, &ue) {
		body.Error.Message = ue.Error()
	} else {
		body.Error.Message = i18n.Tr(r.Context(), errContext, http.StatusText(status))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).
			Str("request_id", rc.RequestID).
			Msg("Failed to write error response")
	}
}

// writeJSON writes v with status 200.
func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	return json.NewEncoder(w).Encode(v)
}
