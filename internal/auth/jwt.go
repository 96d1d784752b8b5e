package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the JWT claims carried by an operator session cookie.
type SessionClaims struct {
	OperatorID string `json:"operator_id"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs and validates operator session tokens.
type JWTAuthenticator struct {
	audience string
	issuer   string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(audience, issuer string) JWTAuthenticator {
	return JWTAuthenticator{
		audience: audience,
		issuer:   issuer,
	}
}

// GenerateToken generates a JWT token with the given claims and secret.
func (a *JWTAuthenticator) GenerateToken(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateSessionToken validates a session token and returns its claims.
func (a *JWTAuthenticator) ValidateSessionToken(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	return claims, nil
}
