// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the backend capabilities the sprintboard core is
// built on: live collection subscriptions, batched document writes, the
// presence feed, the identity provider and the calendar API.
//
// Each capability is an interface so the core can run against the in-memory
// implementations in memory.go as well as the production ones (Cloud
// Firestore, the presence websocket backend and the HTTP APIs).
//
// Errors are mapped to the sentinel values in errors.go so callers can use
// [errors.Is] regardless of transport (e.g. [ErrUnauthorized] for an expired
// token from either an HTTP 401 or a gRPC Unauthenticated status).
package adapter

import (
	"context"
	"time"

	"github.com/sprintboard/sprintboard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// CancelFunc stops a subscription or listener. It is idempotent.
type CancelFunc func()

// CollectionSource delivers live result sets. Callbacks run on a goroutine
// owned by the source and must not block.
type CollectionSource interface {
	// SubscribeCollection delivers the full current result set of q to
	// onBatch, first immediately and then after every change, until the
	// returned CancelFunc is called or ctx is done.
	SubscribeCollection(ctx context.Context, q models.Query, onBatch func([]models.Record), onError func(error)) (CancelFunc, error)

	// SubscribeDocument is the single-document variant. onValue receives nil
	// while the document does not exist.
	SubscribeDocument(ctx context.Context, path string, onValue func(*models.Record), onError func(error)) (CancelFunc, error)
}

// DocumentWriter performs one-shot writes. Writes are never retried by the
// implementation.
type DocumentWriter interface {
	// WriteBatch applies every patch or none of them. A field value of
	// [models.ServerTimestamp] is replaced by the commit time.
	WriteBatch(ctx context.Context, patches []models.Patch) error

	// Create adds a document to collection and returns its id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Delete removes the document at path.
	Delete(ctx context.Context, path string) error
}

// PresenceSource is the live key-value presence feed of a workspace.
type PresenceSource interface {
	// OnConnectionStateChange registers fn for transport state changes. If
	// the transport is already connected fn is called with true shortly
	// after registration. fn is never called on the goroutine that reads
	// the transport, so it may issue requests.
	OnConnectionStateChange(fn func(connected bool)) CancelFunc

	// RegisterDisconnectAction asks the backend to write value at key,
	// exactly once, when this client's transport drops. It returns after the
	// backend acknowledged the registration.
	RegisterDisconnectAction(ctx context.Context, key string, value models.PresenceEntry) error

	// Set writes value at key and returns after the backend acknowledged it.
	Set(ctx context.Context, key string, value models.PresenceEntry) error

	// Listen delivers every entry of the feed after each change.
	Listen(onFeed func([]models.PresenceEntry), onError func(error)) CancelFunc

	// Close releases the transport.
	Close() error
}

// IdentityProvider issues identity tokens.
type IdentityProvider interface {
	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (models.Identity, error)

	// Refresh exchanges a refresh token for a new identity token.
	Refresh(ctx context.Context, refreshToken string) (models.Identity, error)
}

// CalendarAdapter talks to the third-party calendar API on behalf of the
// signed-in user.
type CalendarAdapter interface {
	// SetToken stores the bearer token attached to subsequent calls.
	SetToken(token string)

	// ListEvents returns events that overlap [from, to).
	ListEvents(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)

	// CreateEvent creates ev and returns it as stored by the calendar.
	CreateEvent(ctx context.Context, ev models.CalendarEvent) (models.CalendarEvent, error)
}
