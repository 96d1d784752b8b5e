package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillhq/newsletter-api/internal/payload"
	"github.com/quillhq/newsletter-api/internal/usecase"
)

// Subscribe registers a new subscriber and mails the confirmation link.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req payload.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	err := h.subscriptionUC.Register(r.Context(), usecase.RegisterParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.respondRegisterError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Confirm resolves a confirmation token from the query string. Unknown,
// expired and invalidated tokens all yield the same unauthorized response so
// valid tokens cannot be probed.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")

	if err := h.confirmationUC.Confirm(r.Context(), token); err != nil {
		if errors.Is(err, usecase.ErrTokenNotFound) {
			h.unauthorized(w, "invalid subscription token")
			return
		}

		h.serverError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}
