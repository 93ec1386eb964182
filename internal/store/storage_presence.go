// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

// presenceStorage is the in-memory implementation of [PresenceStorage].
//
// Presence is ephemeral by nature: entries live as long as the process and
// every client re-acquires its entry after reconnecting, so nothing is
// persisted.
type presenceStorage struct {
	mu         sync.RWMutex
	workspaces map[string]map[string]models.PresenceEntry

	now    func() time.Time
	logger *logger.Logger
}

// NewPresenceStorage returns an empty in-memory [PresenceStorage].
func NewPresenceStorage(logger *logger.Logger) PresenceStorage {
	return &presenceStorage{
		workspaces: make(map[string]map[string]models.PresenceEntry),
		now:        time.Now,
		logger:     logger,
	}
}

// Put implements [PresenceStorage]. LastChanged is always the storage's own
// clock, whatever the writer sent.
func (p *presenceStorage) Put(_ context.Context, workspace string, entry models.PresenceEntry) ([]models.PresenceEntry, error) {
	if workspace == "" {
		return nil, ErrEmptyWorkspace
	}
	if entry.Key == "" {
		return nil, ErrEmptyKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entries, ok := p.workspaces[workspace]
	if !ok {
		entries = make(map[string]models.PresenceEntry)
		p.workspaces[workspace] = entries
	}
	entry.LastChanged = p.now().UTC()
	entries[entry.Key] = entry

	p.logger.Debug().
		Str("workspace", workspace).
		Str("key", entry.Key).
		Str("state", string(entry.State)).
		Msg("presence entry written")

	return sortedFeed(entries), nil
}

// Feed implements [PresenceStorage].
func (p *presenceStorage) Feed(_ context.Context, workspace string) ([]models.PresenceEntry, error) {
	if workspace == "" {
		return nil, ErrEmptyWorkspace
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedFeed(p.workspaces[workspace]), nil
}

// Workspaces implements [PresenceStorage].
func (p *presenceStorage) Workspaces() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workspaces)
}

func sortedFeed(entries map[string]models.PresenceEntry) []models.PresenceEntry {
	feed := make([]models.PresenceEntry, 0, len(entries))
	for _, e := range entries {
		feed = append(feed, e)
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Key < feed[j].Key })
	return feed
}
