// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the claim set carried by the identity provider's id token.
//
// It embeds [jwt.RegisteredClaims] for standard claims; the subject ("sub")
// is the stable user identifier.
type IdentityClaims struct {
	jwt.RegisteredClaims

	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Identity is the signed-in user of the current session.
type Identity struct {
	UserID string
	Name   string
	Email  string

	// IDToken is the compact JWT issued by the identity provider.
	IDToken string `json:"-"`

	// RefreshToken is exchanged for a new IDToken on re-authorization.
	RefreshToken string `json:"-"`

	// ExpiresAt is the "exp" claim of IDToken.
	ExpiresAt time.Time
}

// Expired reports whether the id token has expired at now.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// PresenceEntry builds the presence record this identity publishes for the
// session identified by key.
func (i Identity) PresenceEntry(key string, state PresenceState) PresenceEntry {
	return PresenceEntry{
		Key:    key,
		UserID: i.UserID,
		Name:   i.Name,
		Email:  i.Email,
		State:  state,
	}
}
