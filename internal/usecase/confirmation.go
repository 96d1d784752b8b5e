package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/quillhq/newsletter-api/internal/repository"
)

// ConfirmationUsecase resolves confirmation tokens and performs the one-way
// status transition.
type ConfirmationUsecase interface {
	// Confirm marks the subscriber owning the token as confirmed. The
	// operation is idempotent: confirming an already confirmed subscriber
	// succeeds silently.
	Confirm(ctx context.Context, token string) error
}

type confirmationUsecase struct {
	subscriberRepo repository.SubscriberRepository
	tokenRepo      repository.SubscriptionTokenRepository
	logger         *zerolog.Logger
}

// NewConfirmationUsecase creates a new ConfirmationUsecase instance.
func NewConfirmationUsecase(
	subscriberRepo repository.SubscriberRepository,
	tokenRepo repository.SubscriptionTokenRepository,
	logger *zerolog.Logger,
) ConfirmationUsecase {
	return &confirmationUsecase{
		subscriberRepo: subscriberRepo,
		tokenRepo:      tokenRepo,
		logger:         logger,
	}
}

func (u *confirmationUsecase) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenNotFound
	}

	doc, err := u.tokenRepo.GetActive(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}

		return err
	}

	// Unconditional update: the target state is confirmed regardless of the
	// current one, so concurrent confirmations of the same token are safe.
	if err := u.subscriberRepo.ConfirmByID(ctx, doc.SubscriberID); err != nil {
		return err
	}

	u.logger.Info().Str("subscriber_id", doc.SubscriberID).Msg("subscriber confirmed")

	return nil
}
