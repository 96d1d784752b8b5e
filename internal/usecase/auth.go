package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quillhq/newsletter-api/internal/auth"
	"github.com/quillhq/newsletter-api/internal/config"
	"github.com/quillhq/newsletter-api/internal/repository"
	"github.com/quillhq/newsletter-api/internal/security"
)

// AuthUsecase verifies operator credentials and manages operator sessions.
type AuthUsecase interface {
	// ValidateCredentials checks a username/password pair against the stored
	// verifier and returns the operator id on success. Unknown usernames and
	// wrong passwords are reported uniformly as ErrInvalidCredentials.
	ValidateCredentials(ctx context.Context, username, password string) (string, error)

	// Login validates credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, error)

	// ChangePassword replaces the operator's password after verifying the
	// current one.
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
}

type authUsecase struct {
	operatorRepo repository.OperatorRepository
	jwtAuth      auth.JWTAuthenticator
	sessionCfg   config.SessionConfig

	// fallbackHash is verified against when the username does not exist, so
	// the unknown-user path takes as long as a real verification.
	fallbackHash string
}

// NewAuthUsecase creates a new AuthUsecase instance.
func NewAuthUsecase(
	operatorRepo repository.OperatorRepository,
	jwtAuth auth.JWTAuthenticator,
	sessionCfg config.SessionConfig,
) (AuthUsecase, error) {
	fallbackHash, err := security.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &authUsecase{
		operatorRepo: operatorRepo,
		jwtAuth:      jwtAuth,
		sessionCfg:   sessionCfg,
		fallbackHash: fallbackHash,
	}, nil
}

func (u *authUsecase) ValidateCredentials(ctx context.Context, username, password string) (string, error) {
	operator, err := u.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = security.VerifyPassword(password, u.fallbackHash)
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	ok, err := security.VerifyPassword(password, operator.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return operator.ID.Hex(), nil
}

func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	operatorID, err := u.ValidateCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := auth.SessionClaims{
		OperatorID: operatorID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.sessionCfg.ExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.sessionCfg.Issuer,
			Audience:  jwt.ClaimStrings{u.sessionCfg.Issuer},
		},
	}

	return u.jwtAuth.GenerateToken(claims, u.sessionCfg.Secret)
}

func (u *authUsecase) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	operator, err := u.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}

		return err
	}

	ok, err := security.VerifyPassword(currentPassword, operator.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return u.operatorRepo.UpdatePassword(ctx, operator.ID.Hex(), passwordHash)
}
