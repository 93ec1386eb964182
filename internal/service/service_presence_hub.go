// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/store"
	"github.com/sprintboard/sprintboard/models"
)

type hubSession struct {
	id        string
	workspace string
	userID    string
	send      func(models.PresenceMessage) bool

	// disconnect actions keyed by presence key
	onDisconnect map[string]models.PresenceEntry
}

type hubMetrics struct {
	sessions     *prometheus.GaugeVec
	writes       *prometheus.CounterVec
	disconnects  prometheus.Counter
	droppedFeeds prometheus.Counter
}

func newHubMetrics(registerer prometheus.Registerer) hubMetrics {
	factory := promauto.With(registerer)
	return hubMetrics{
		sessions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "presence_sessions",
			Help: "The number of open presence sessions",
		}, []string{"workspace"}),
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presence_writes_total",
			Help: "The number of presence entry writes",
		}, []string{"state", "source"}),
		disconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "presence_disconnect_actions_total",
			Help: "The number of disconnect actions applied",
		}),
		droppedFeeds: factory.NewCounter(prometheus.CounterOpts{
			Name: "presence_dropped_frames_total",
			Help: "The number of frames dropped because a session was too slow",
		}),
	}
}

type presenceHub struct {
	storage store.PresenceStorage

	// mu serializes writes with broadcasts so that every session sees
	// feeds in storage order.
	mu       sync.Mutex
	sessions map[string]*hubSession

	// owners maps workspace and presence key to the user that first wrote
	// or registered the key.
	owners map[string]map[string]string

	metrics hubMetrics
	logger  *logger.Logger
}

// NewPresenceHub returns a [PresenceHub] over storage. Metrics are registered
// on registerer; a nil registerer leaves them unregistered.
func NewPresenceHub(storage store.PresenceStorage, registerer prometheus.Registerer, logger *logger.Logger) PresenceHub {
	return &presenceHub{
		storage:  storage,
		sessions: make(map[string]*hubSession),
		owners:   make(map[string]map[string]string),
		metrics:  newHubMetrics(registerer),
		logger:   logger,
	}
}

func (h *presenceHub) Join(ctx context.Context, workspace string, user models.IdentityClaims, send func(models.PresenceMessage) bool) (string, error) {
	if workspace == "" {
		return "", ErrEmptyWorkspaceName
	}

	s := &hubSession{
		id:           uuid.NewString(),
		workspace:    workspace,
		userID:       user.Subject,
		send:         send,
		onDisconnect: make(map[string]models.PresenceEntry),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	feed, err := h.storage.Feed(ctx, workspace)
	if err != nil {
		return "", fmt.Errorf("error reading presence feed: %w", err)
	}

	h.sessions[s.id] = s
	h.metrics.sessions.WithLabelValues(workspace).Inc()

	h.deliver(s, models.PresenceMessage{Type: models.PresenceMsgConnected, Session: s.id})
	h.deliver(s, models.PresenceMessage{Type: models.PresenceMsgFeed, Entries: feed})

	h.logger.Info().
		Str("workspace", workspace).
		Str("session", s.id).
		Str("user_id", s.userID).
		Msg("presence session joined")

	return s.id, nil
}

func (h *presenceHub) Set(ctx context.Context, sessionID, key string, entry models.PresenceEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.checkEntry(sessionID, key, entry)
	if err != nil {
		return err
	}

	entry.Key = key
	feed, err := h.storage.Put(ctx, s.workspace, entry)
	if err != nil {
		return fmt.Errorf("error writing presence entry: %w", err)
	}
	h.metrics.writes.WithLabelValues(string(entry.State), "set").Inc()

	h.broadcast(s.workspace, feed)
	return nil
}

func (h *presenceHub) RegisterDisconnect(_ context.Context, sessionID, key string, entry models.PresenceEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.checkEntry(sessionID, key, entry)
	if err != nil {
		return err
	}

	entry.Key = key
	s.onDisconnect[key] = entry
	return nil
}

func (h *presenceHub) Leave(ctx context.Context, sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return 0
	}
	delete(h.sessions, sessionID)
	h.metrics.sessions.WithLabelValues(s.workspace).Dec()

	applied := 0
	var feed []models.PresenceEntry
	for key, entry := range s.onDisconnect {
		// a newer session of the same user took over the entry
		if h.claimed(s.workspace, s.userID, key) {
			continue
		}
		written, err := h.storage.Put(ctx, s.workspace, entry)
		if err != nil {
			h.logger.Err(err).
				Str("session", s.id).
				Str("key", entry.Key).
				Msg("error applying disconnect action")
			continue
		}
		feed = written
		applied++
		h.metrics.writes.WithLabelValues(string(entry.State), "disconnect").Inc()
	}
	h.metrics.disconnects.Add(float64(applied))

	if applied > 0 {
		h.broadcast(s.workspace, feed)
	}

	h.logger.Info().
		Str("workspace", s.workspace).
		Str("session", s.id).
		Int("disconnect_actions", applied).
		Msg("presence session left")

	return applied
}

func (h *presenceHub) Sessions(workspace string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, s := range h.sessions {
		if s.workspace == workspace {
			n++
		}
	}
	return n
}

// claimed must be called with mu held.
func (h *presenceHub) claimed(workspace, userID, key string) bool {
	for _, other := range h.sessions {
		if other.workspace != workspace || other.userID != userID {
			continue
		}
		if _, ok := other.onDisconnect[key]; ok {
			return true
		}
	}
	return false
}

// checkEntry must be called with mu held.
func (h *presenceHub) checkEntry(sessionID, key string, entry models.PresenceEntry) (*hubSession, error) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	if key == "" {
		return nil, ErrEmptyPresenceKey
	}
	if entry.UserID != s.userID {
		return nil, ErrForeignPresence
	}

	keys, ok := h.owners[s.workspace]
	if !ok {
		keys = make(map[string]string)
		h.owners[s.workspace] = keys
	}
	if owner, ok := keys[key]; ok && owner != s.userID {
		return nil, fmt.Errorf("%w: key %q", ErrForeignPresence, key)
	}
	keys[key] = s.userID
	return s, nil
}

// broadcast must be called with mu held.
func (h *presenceHub) broadcast(workspace string, feed []models.PresenceEntry) {
	for _, s := range h.sessions {
		if s.workspace != workspace {
			continue
		}
		h.deliver(s, models.PresenceMessage{Type: models.PresenceMsgFeed, Entries: feed})
	}
}

func (h *presenceHub) deliver(s *hubSession, msg models.PresenceMessage) {
	if s.send(msg) {
		return
	}
	h.metrics.droppedFeeds.Inc()
	h.logger.Warn().
		Str("session", s.id).
		Str("type", msg.Type).
		Msg("presence frame dropped")
}

// IsPresenceRequestError reports whether err was caused by the request itself
// rather than by the backend.
func IsPresenceRequestError(err error) bool {
	return errors.Is(err, ErrUnknownSession) ||
		errors.Is(err, ErrEmptyPresenceKey) ||
		errors.Is(err, ErrForeignPresence) ||
		errors.Is(err, ErrEmptyWorkspaceName) ||
		errors.Is(err, store.ErrEmptyKey) ||
		errors.Is(err, store.ErrEmptyWorkspace)
}
