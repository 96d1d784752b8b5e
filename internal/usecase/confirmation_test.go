package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/newsletter-api/internal/model"
)

func newConfirmationFixture(t *testing.T) (*memStore, ConfirmationUsecase, string) {
	t.Helper()

	store := newMemStore()
	notifier := &fakeNotifier{}
	logger := zerolog.Nop()

	subUC := newSubscriptionUsecaseForTest(store, notifier)
	require.NoError(t, subUC.Register(context.Background(), RegisterParams{
		Name:  "Ursula",
		Email: "ursula@example.com",
	}))

	return store, NewConfirmationUsecase(store, store, &logger), store.tokens[0].Token
}

func TestConfirmTransitionsSubscriber(t *testing.T) {
	store, uc, token := newConfirmationFixture(t)

	require.NoError(t, uc.Confirm(context.Background(), token))

	assert.Equal(t, model.StatusConfirmed, store.subscribers[0].Status)
}

func TestConfirmIsIdempotent(t *testing.T) {
	store, uc, token := newConfirmationFixture(t)

	require.NoError(t, uc.Confirm(context.Background(), token))
	require.NoError(t, uc.Confirm(context.Background(), token))

	assert.Equal(t, model.StatusConfirmed, store.subscribers[0].Status)
}

func TestConfirmUnknownToken(t *testing.T) {
	store, uc, _ := newConfirmationFixture(t)

	err := uc.Confirm(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaa")

	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Equal(t, model.StatusPendingConfirmation, store.subscribers[0].Status)
}

func TestConfirmEmptyToken(t *testing.T) {
	_, uc, _ := newConfirmationFixture(t)

	assert.ErrorIs(t, uc.Confirm(context.Background(), ""), ErrTokenNotFound)
}

func TestConfirmExpiredToken(t *testing.T) {
	store, uc, token := newConfirmationFixture(t)
	store.tokens[0].ExpiresAt = time.Now().Add(-time.Minute)

	assert.ErrorIs(t, uc.Confirm(context.Background(), token), ErrTokenNotFound)
}

func TestConfirmInvalidatedToken(t *testing.T) {
	store, uc, token := newConfirmationFixture(t)
	require.NoError(t, store.InvalidateForSubscriber(context.Background(), store.subscribers[0].ID))

	assert.ErrorIs(t, uc.Confirm(context.Background(), token), ErrTokenNotFound)
}
