// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strconv"

	"codeberg.org/tslate/tslate/core/placeholder"
	"codeberg.org/tslate/tslate/i18n"
)

// TranslateResponse is the body of GET /api/v1/translate.
type TranslateResponse struct {
	Context     string `json:"context"`
	Source      string `json:"source"`
	Comment     string `json:"comment,omitempty"`
	N           *int   `json:"n,omitempty"`
	Locale      string `json:"locale"`
	Translation string `json:"translation"`
	// Found is false when the translation fell back to the source.
	Found bool `json:"found"`
}

// Translate looks up one message for the negotiated locale.
//
// Query parameters: context, source (required), comment for a
// disambiguated message, and n to select a numerus form. A missing or
// unfinished translation yields the source text with found=false.
func (api *API) Translate(w http.ResponseWriter, r *http.Request) error {
	b, err := api.loaded(r)
	if err != nil {
		return err
	}

	q := r.URL.Query()

	if !q.Has("source") {
		return userError(r, http.StatusBadRequest, "Missing required parameter %s", "source")
	}

	resp := TranslateResponse{
		Context: q.Get("context"),
		Source:  q.Get("source"),
		Comment: q.Get("comment"),
	}

	tag, c := b.Match(i18n.TagFrom(r.Context()))
	resp.Locale = tag.String()

	switch {
	case q.Has("n"):
		n, err := strconv.Atoi(q.Get("n"))
		if err != nil {
			return userError(r, http.StatusBadRequest, "Parameter %s must be an integer", "n")
		}

		resp.N = &n
		resp.Translation, resp.Found = c.LookupNumerus(resp.Context, resp.Source, n)

		if !resp.Found {
			resp.Translation = placeholder.ReplaceCount(resp.Source, n)
		}

	default:
		resp.Translation, resp.Found = c.LookupDisambiguated(resp.Context, resp.Source, resp.Comment)

		if !resp.Found {
			resp.Translation = resp.Source
		}
	}

	return writeJSON(w, resp)
}
