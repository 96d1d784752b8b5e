package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/quillhq/newsletter-api/internal/auth"
)

type contextKey struct{ name string }

var sessionClaimsKey = &contextKey{name: "session-claims"}

// sessionCookieName is the cookie carrying the operator session token.
const sessionCookieName = "session"

// requestLogger emits one structured log line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// sessionAuth rejects requests lacking a valid operator session cookie and
// stores the session claims in the request context.
func (h *Handler) sessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			h.unauthorized(w, "not logged in")
			return
		}

		claims, err := h.jwtAuth.ValidateSessionToken(cookie.Value, h.sessionCfg.Secret)
		if err != nil {
			h.unauthorized(w, "invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionClaimsFromContext returns the claims stored by sessionAuth.
func sessionClaimsFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}
