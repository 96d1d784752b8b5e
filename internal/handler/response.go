package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillhq/newsletter-api/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, reason string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: reason})
}

func (h *Handler) unauthorized(w http.ResponseWriter, reason string) {
	h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: reason})
}

// serverError logs the full error chain and responds with a redacted message.
func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("request failed")
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong"})
}

// respondRegisterError maps registration errors to transport-level outcomes.
func (h *Handler) respondRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidEmail), errors.Is(err, model.ErrInvalidName):
		h.badRequest(w, err.Error())
	default:
		h.serverError(w, err)
	}
}
