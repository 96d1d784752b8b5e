package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillhq/newsletter-api/internal/mailer"
	"github.com/quillhq/newsletter-api/internal/model"
	"github.com/quillhq/newsletter-api/internal/repository"
	"github.com/quillhq/newsletter-api/internal/security"
)

// Notifier sends a single email. Implementations apply their own transport
// behavior; callers bound each send with a context deadline.
type Notifier interface {
	Send(ctx context.Context, email mailer.Email) error
}

// SubscriptionUsecase defines the registration business logic.
type SubscriptionUsecase interface {
	// Register validates the input, persists a pending subscriber together
	// with a confirmation token, and mails the confirmation link.
	Register(ctx context.Context, params RegisterParams) error
}

// RegisterParams defines the parameters for a registration request.
type RegisterParams struct {
	Name  string
	Email string
}

type subscriptionUsecase struct {
	subscriberRepo repository.SubscriberRepository
	tokenRepo      repository.SubscriptionTokenRepository
	notifier       Notifier
	logger         *zerolog.Logger
	baseURL        string
	tokenTTL       time.Duration
	sendTimeout    time.Duration
}

// NewSubscriptionUsecase creates a new SubscriptionUsecase instance.
func NewSubscriptionUsecase(
	subscriberRepo repository.SubscriberRepository,
	tokenRepo repository.SubscriptionTokenRepository,
	notifier Notifier,
	logger *zerolog.Logger,
	baseURL string,
	tokenTTL time.Duration,
	sendTimeout time.Duration,
) SubscriptionUsecase {
	return &subscriptionUsecase{
		subscriberRepo: subscriberRepo,
		tokenRepo:      tokenRepo,
		notifier:       notifier,
		logger:         logger,
		baseURL:        baseURL,
		tokenTTL:       tokenTTL,
		sendTimeout:    sendTimeout,
	}
}

func (u *subscriptionUsecase) Register(ctx context.Context, params RegisterParams) error {
	newSub, err := model.ParseNewSubscriber(params.Name, params.Email)
	if err != nil {
		return err
	}

	existing, err := u.subscriberRepo.GetByEmail(ctx, newSub.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if existing != nil {
		return u.reRegister(ctx, existing)
	}

	tokenStr, err := security.GenerateSubscriptionToken()
	if err != nil {
		return err
	}

	sub := &model.Subscriber{
		ID:           uuid.NewString(),
		Email:        newSub.Email,
		Name:         newSub.Name,
		Status:       model.StatusPendingConfirmation,
		SubscribedAt: time.Now(),
	}
	token := &model.SubscriptionToken{
		Token:        tokenStr,
		SubscriberID: sub.ID,
		ExpiresAt:    time.Now().Add(u.tokenTTL),
		CreatedAt:    time.Now(),
	}

	if err := u.subscriberRepo.CreateWithToken(ctx, sub, token); err != nil {
		return err
	}

	// The confirmation email is dispatched strictly after the transaction
	// commits. A crash here leaves a pending subscriber with a stored token
	// and no delivered email, which is recoverable out of band.
	return u.sendConfirmationEmail(ctx, sub.Email, tokenStr)
}

// reRegister handles a duplicate registration. A still-pending subscriber has
// its previous tokens invalidated and receives a fresh one; an already
// confirmed subscriber is left untouched.
func (u *subscriptionUsecase) reRegister(ctx context.Context, sub *model.Subscriber) error {
	if sub.Status == model.StatusConfirmed {
		u.logger.Info().Str("subscriber_id", sub.ID).Msg("registration for already confirmed subscriber ignored")
		return nil
	}

	if err := u.tokenRepo.InvalidateForSubscriber(ctx, sub.ID); err != nil {
		return err
	}

	tokenStr, err := security.GenerateSubscriptionToken()
	if err != nil {
		return err
	}

	token := &model.SubscriptionToken{
		Token:        tokenStr,
		SubscriberID: sub.ID,
		ExpiresAt:    time.Now().Add(u.tokenTTL),
	}
	if err := u.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	return u.sendConfirmationEmail(ctx, sub.Email, tokenStr)
}

func (u *subscriptionUsecase) sendConfirmationEmail(ctx context.Context, email, token string) error {
	ctx, cancel := context.WithTimeout(ctx, u.sendTimeout)
	defer cancel()

	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", u.baseURL, token)

	msg := mailer.Email{
		To:      email,
		Subject: "Welcome to our newsletter!",
		HTMLBody: fmt.Sprintf(
			`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
			link,
		),
		Body: fmt.Sprintf(
			"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
			link,
		),
	}

	if err := u.notifier.Send(ctx, msg); err != nil {
		return &DeliveryError{Recipient: email, Err: err}
	}

	return nil
}
