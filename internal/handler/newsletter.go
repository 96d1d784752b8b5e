package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillhq/newsletter-api/internal/auth"
	"github.com/quillhq/newsletter-api/internal/payload"
	"github.com/quillhq/newsletter-api/internal/usecase"
)

// Publish authenticates the caller with Basic auth and fans the issue out to
// all confirmed subscribers. Authentication happens before the body is read,
// so unauthenticated requests never trigger a send.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	creds, err := auth.ParseBasicAuth(r.Header.Get("Authorization"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("rejected newsletter publish with malformed credentials")
		h.basicChallenge(w)
		return
	}

	operatorID, err := h.authUC.ValidateCredentials(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.logger.Warn().Str("username", creds.Username).Msg("rejected newsletter publish with invalid credentials")
			h.basicChallenge(w)
			return
		}

		h.serverError(w, err)
		return
	}

	var req payload.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	issue := usecase.Issue{
		Title: req.Title,
		HTML:  req.Content.HTML,
		Text:  req.Content.Text,
	}

	if err := h.newsletterUC.Publish(r.Context(), issue); err != nil {
		h.serverError(w, err)
		return
	}

	h.logger.Info().Str("operator_id", operatorID).Str("title", req.Title).Msg("newsletter published")
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

// basicChallenge responds with 401 and the Basic scheme challenge.
func (h *Handler) basicChallenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
	h.unauthorized(w, "authentication failed")
}
