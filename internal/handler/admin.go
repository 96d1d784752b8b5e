package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quillhq/newsletter-api/internal/payload"
	"github.com/quillhq/newsletter-api/internal/usecase"
)

// Login authenticates an operator and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	token, err := h.authUC.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.unauthorized(w, "authentication failed")
			return
		}

		h.serverError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionCfg.ExpiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard returns the identity of the logged-in operator.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaimsFromContext(r.Context())
	if !ok {
		h.unauthorized(w, "not logged in")
		return
	}

	h.writeJSON(w, http.StatusOK, payload.DashboardResponse{Username: claims.Username})
}

// ChangePassword replaces the logged-in operator's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaimsFromContext(r.Context())
	if !ok {
		h.unauthorized(w, "not logged in")
		return
	}

	var req payload.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	err := h.authUC.ChangePassword(r.Context(), claims.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.unauthorized(w, "current password is incorrect")
			return
		}

		h.serverError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
