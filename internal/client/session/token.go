package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ehealth/portal/internal/client/models"
)

// ErrCredentialInvalid covers every way a stored credential can be unusable:
// malformed payload, missing claims, or an expiry in the past. Callers treat
// all of these identically, so one sentinel is enough.
var ErrCredentialInvalid = errors.New("credential invalid")

// tokenClaims mirrors the backend's token payload.
type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// decodeIdentity extracts the identity claims from a bearer token. The
// client holds no signing secret, so the signature is not verified here;
// the backend re-checks it on every authenticated call. Expiry is checked
// against now.
func decodeIdentity(token string, now time.Time) (models.Identity, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return models.Identity{}, ErrCredentialInvalid
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return models.Identity{}, ErrCredentialInvalid
	}
	if claims.UserID == "" {
		return models.Identity{}, ErrCredentialInvalid
	}
	return models.Identity{
		ID:   claims.UserID,
		Role: models.Role(claims.Role),
		Name: claims.Name,
	}, nil
}
