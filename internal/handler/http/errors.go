// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"

	"github.com/sprintboard/sprintboard/internal/app"
)

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned when the request carries no
	// "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header is not of
	// the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the header names the scheme but the
	// token itself is empty.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)

// ErrMissingWorkspace is returned when a presence connection names no
// workspace in its query string.
var ErrMissingWorkspace = errors.New("`workspace` query parameter is required")

// Presence request errors sent back in error frames.
var (
	ErrEntryRequired      = errors.New(app.MsgEntryRequired)
	ErrUnknownMessageType = errors.New(app.MsgUnknownMessageType)
)
