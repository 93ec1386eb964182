package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sprintboard/sprintboard/models"
)

// ErrInvalidIdentityToken is returned when an id token cannot be decoded or
// carries no subject.
var ErrInvalidIdentityToken = errors.New("invalid identity token")

// ParseIdentityToken decodes the claims of an identity provider id token
// without verifying its signature. The client only reads display claims
// from it; every backend verifies the token itself.
func ParseIdentityToken(idToken string) (models.IdentityClaims, error) {
	var claims models.IdentityClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return models.IdentityClaims{}, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}
	if claims.Subject == "" {
		return models.IdentityClaims{}, fmt.Errorf("%w: empty subject", ErrInvalidIdentityToken)
	}

	return claims, nil
}

// IdentityFromTokens builds an [models.Identity] from an id token and its
// refresh token.
func IdentityFromTokens(idToken, refreshToken string) (models.Identity, error) {
	claims, err := ParseIdentityToken(idToken)
	if err != nil {
		return models.Identity{}, err
	}

	identity := models.Identity{
		UserID:       claims.Subject,
		Name:         claims.Name,
		Email:        claims.Email,
		IDToken:      idToken,
		RefreshToken: refreshToken,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// SignIdentityToken issues an HS256 id token for userID. It backs demo mode
// and tests; production tokens come from the identity provider.
func SignIdentityToken(userID, name, email string, ttl time.Duration, signKey string) (string, error) {
	if userID == "" || ttl <= 0 || signKey == "" {
		return "", errors.New("invalid params for signing identity token")
	}

	now := time.Now()
	claims := models.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  name,
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing identity token: %w", err)
	}
	return signed, nil
}

// VerifyIdentityToken checks the HS256 signature and expiry of idToken with
// signKey and returns its claims. An empty signKey falls back to
// [ParseIdentityToken], which suits a local demo backend.
func VerifyIdentityToken(idToken, signKey string) (models.IdentityClaims, error) {
	if signKey == "" {
		return ParseIdentityToken(idToken)
	}

	var claims models.IdentityClaims
	_, err := jwt.ParseWithClaims(idToken, &claims, func(t *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.IdentityClaims{}, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}
	if claims.Subject == "" {
		return models.IdentityClaims{}, fmt.Errorf("%w: empty subject", ErrInvalidIdentityToken)
	}
	return claims, nil
}
