package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/newsletter-api/internal/auth"
	"github.com/quillhq/newsletter-api/internal/config"
	"github.com/quillhq/newsletter-api/internal/security"
)

func newAuthFixture(t *testing.T) (*fakeOperatorRepo, AuthUsecase, auth.JWTAuthenticator, config.SessionConfig) {
	t.Helper()

	repo := newFakeOperatorRepo()

	passwordHash, err := security.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), "editor", passwordHash))

	sessionCfg := config.SessionConfig{
		Secret:    "test-secret",
		Issuer:    "newsletter-api",
		ExpiresIn: time.Hour,
	}
	jwtAuth := auth.NewJWTAuthenticator(sessionCfg.Issuer, sessionCfg.Issuer)

	uc, err := NewAuthUsecase(repo, jwtAuth, sessionCfg)
	require.NoError(t, err)

	return repo, uc, jwtAuth, sessionCfg
}

func TestValidateCredentials(t *testing.T) {
	repo, uc, _, _ := newAuthFixture(t)

	operatorID, err := uc.ValidateCredentials(context.Background(), "editor", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, repo.operators["editor"].ID.Hex(), operatorID)
}

func TestValidateCredentialsWrongPassword(t *testing.T) {
	_, uc, _, _ := newAuthFixture(t)

	_, err := uc.ValidateCredentials(context.Background(), "editor", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateCredentialsUnknownUsername(t *testing.T) {
	_, uc, _, _ := newAuthFixture(t)

	_, err := uc.ValidateCredentials(context.Background(), "nobody", "whatever")

	// Unknown usernames and wrong passwords are indistinguishable.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIssuesValidSessionToken(t *testing.T) {
	_, uc, jwtAuth, sessionCfg := newAuthFixture(t)

	token, err := uc.Login(context.Background(), "editor", "correct horse battery staple")
	require.NoError(t, err)

	claims, err := jwtAuth.ValidateSessionToken(token, sessionCfg.Secret)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.NotEmpty(t, claims.OperatorID)
}

func TestLoginWrongPassword(t *testing.T) {
	_, uc, _, _ := newAuthFixture(t)

	_, err := uc.Login(context.Background(), "editor", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	_, uc, _, _ := newAuthFixture(t)

	err := uc.ChangePassword(context.Background(), "editor", "correct horse battery staple", "a new password")
	require.NoError(t, err)

	_, err = uc.ValidateCredentials(context.Background(), "editor", "a new password")
	assert.NoError(t, err)

	_, err = uc.ValidateCredentials(context.Background(), "editor", "correct horse battery staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	_, uc, _, _ := newAuthFixture(t)

	err := uc.ChangePassword(context.Background(), "editor", "wrong", "a new password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
