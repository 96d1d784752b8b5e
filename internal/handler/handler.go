// Package handler exposes the HTTP boundary of the newsletter service and
// maps domain errors to transport-level responses.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/quillhq/newsletter-api/internal/auth"
	"github.com/quillhq/newsletter-api/internal/config"
	"github.com/quillhq/newsletter-api/internal/usecase"
	"github.com/quillhq/newsletter-api/internal/validator"
)

// Handler wires the use cases to HTTP routes.
type Handler struct {
	subscriptionUC usecase.SubscriptionUsecase
	confirmationUC usecase.ConfirmationUsecase
	newsletterUC   usecase.NewsletterUsecase
	authUC         usecase.AuthUsecase
	jwtAuth        auth.JWTAuthenticator
	sessionCfg     config.SessionConfig
	validator      *validator.Validator
	logger         *zerolog.Logger
}

// New creates a Handler instance.
func New(
	subscriptionUC usecase.SubscriptionUsecase,
	confirmationUC usecase.ConfirmationUsecase,
	newsletterUC usecase.NewsletterUsecase,
	authUC usecase.AuthUsecase,
	jwtAuth auth.JWTAuthenticator,
	sessionCfg config.SessionConfig,
	v *validator.Validator,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		subscriptionUC: subscriptionUC,
		confirmationUC: confirmationUC,
		newsletterUC:   newsletterUC,
		authUC:         authUC,
		jwtAuth:        jwtAuth,
		sessionCfg:     sessionCfg,
		validator:      v,
		logger:         logger,
	}
}

// Routes returns the root http.Handler for the service.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Post("/subscriptions", h.Subscribe)
	r.Get("/subscriptions/confirm", h.Confirm)

	r.Post("/newsletters", h.Publish)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.sessionAuth)
			r.Get("/dashboard", h.Dashboard)
			r.Post("/password", h.ChangePassword)
			r.Post("/logout", h.Logout)
		})
	})

	return r
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
