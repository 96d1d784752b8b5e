package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/quillhq/newsletter-api/internal/auth"
	"github.com/quillhq/newsletter-api/internal/config"
	"github.com/quillhq/newsletter-api/internal/handler"
	"github.com/quillhq/newsletter-api/internal/mailer"
	"github.com/quillhq/newsletter-api/internal/repository"
	"github.com/quillhq/newsletter-api/internal/security"
	"github.com/quillhq/newsletter-api/internal/usecase"
	"github.com/quillhq/newsletter-api/internal/validator"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "newsletter-api").Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	subscriberRepo := repository.NewSubscriberMongoRepository(ctx, &logger, client, db)
	tokenRepo := repository.NewSubscriptionTokenMongoRepository(ctx, &logger, db)
	operatorRepo := repository.NewOperatorMongoRepository(ctx, &logger, db)

	if err := bootstrapOperator(ctx, cfg, operatorRepo); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap operator account")
	}

	notifier := mailer.NewMailer(&logger)
	jwtAuth := auth.NewJWTAuthenticator(cfg.Session.Issuer, cfg.Session.Issuer)

	v, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	subscriptionUC := usecase.NewSubscriptionUsecase(
		subscriberRepo, tokenRepo, notifier, &logger, cfg.BaseURL, cfg.TokenTTL, cfg.SendTimeout,
	)
	confirmationUC := usecase.NewConfirmationUsecase(subscriberRepo, tokenRepo, &logger)
	newsletterUC := usecase.NewNewsletterUsecase(subscriberRepo, notifier, &logger, cfg.SendTimeout)

	authUC, err := usecase.NewAuthUsecase(operatorRepo, jwtAuth, cfg.Session)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create auth usecase")
	}

	h := handler.New(subscriptionUC, confirmationUC, newsletterUC, authUC, jwtAuth, cfg.Session, v, &logger)

	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     h.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("starting HTTP server")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// bootstrapOperator creates or updates the operator account from environment
// configuration so a fresh deployment can publish without manual setup.
func bootstrapOperator(ctx context.Context, cfg *config.Config, repo repository.OperatorRepository) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	passwordHash, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	return repo.Upsert(ctx, cfg.AdminUsername, passwordHash)
}
