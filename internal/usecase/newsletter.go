package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillhq/newsletter-api/internal/mailer"
	"github.com/quillhq/newsletter-api/internal/repository"
)

// NewsletterUsecase fans a newsletter issue out to confirmed subscribers.
type NewsletterUsecase interface {
	// Publish sends the issue to every confirmed subscriber. A single
	// delivery failure aborts the remaining fan-out; emails already sent are
	// not undone, and a retried publish re-sends to every recipient.
	Publish(ctx context.Context, issue Issue) error
}

// Issue is the content of a newsletter publication.
type Issue struct {
	Title string
	HTML  string
	Text  string
}

type newsletterUsecase struct {
	subscriberRepo repository.SubscriberRepository
	notifier       Notifier
	logger         *zerolog.Logger
	sendTimeout    time.Duration
}

// NewNewsletterUsecase creates a new NewsletterUsecase instance.
func NewNewsletterUsecase(
	subscriberRepo repository.SubscriberRepository,
	notifier Notifier,
	logger *zerolog.Logger,
	sendTimeout time.Duration,
) NewsletterUsecase {
	return &newsletterUsecase{
		subscriberRepo: subscriberRepo,
		notifier:       notifier,
		logger:         logger,
		sendTimeout:    sendTimeout,
	}
}

func (u *newsletterUsecase) Publish(ctx context.Context, issue Issue) error {
	cursor, err := u.subscriberRepo.ListConfirmed(ctx)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	sent := 0
	for cursor.Next(ctx) {
		sub, err := cursor.Current()
		if err != nil {
			// Stored contact no longer passes validation. Not a send failure.
			u.logger.Warn().Err(err).Msg("skipping confirmed subscriber with invalid stored contact")
			continue
		}

		if err := u.send(ctx, sub.Email, issue); err != nil {
			u.logger.Error().Err(err).Int("sent", sent).Msg("aborting newsletter fan-out")
			return &DeliveryError{Recipient: sub.Email, Err: err}
		}
		sent++
	}

	if err := cursor.Err(); err != nil {
		return &repository.StoreError{Phase: repository.PhaseQuery, Err: err}
	}

	u.logger.Info().Int("sent", sent).Str("title", issue.Title).Msg("newsletter issue published")

	return nil
}

func (u *newsletterUsecase) send(ctx context.Context, recipient string, issue Issue) error {
	ctx, cancel := context.WithTimeout(ctx, u.sendTimeout)
	defer cancel()

	return u.notifier.Send(ctx, mailer.Email{
		To:       recipient,
		Subject:  issue.Title,
		HTMLBody: issue.HTML,
		Body:     issue.Text,
	})
}
