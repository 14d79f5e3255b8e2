package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookscape/catalog/internal/config"
)

// DefaultAccessTokenExpiry applies when no lifetime is configured.
const DefaultAccessTokenExpiry = 30 * time.Minute

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject claim")
)

// CreateAccessToken issues a signed token carrying the username as subject
// and an expiry derived from the configured lifetime.
func CreateAccessToken(username string, cfg config.Auth) (string, error) {
	expiry := cfg.AccessTokenExpiry
	if expiry <= 0 {
		expiry = DefaultAccessTokenExpiry
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return "", fmt.Errorf("unknown signing algorithm %q", cfg.Algorithm)
	}

	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(method, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// ParseAccessToken validates the signature and expiry and returns the subject.
// Any failure maps to ErrInvalidToken; callers treat it as unauthenticated.
func ParseAccessToken(tokenStr string, cfg config.Auth) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return []byte(cfg.SecretKey), nil
		},
		jwt.WithValidMethods([]string{cfg.Algorithm}),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
