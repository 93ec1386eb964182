// Package presence keeps this session's liveness entry published and turns
// the raw presence feed into the list of users shown as online.
package presence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/eventloop"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

// RenderRequester is asked for a render after every rebuild of the view.
type RenderRequester interface {
	RequestRender()
}

// Reconciler publishes the local session's presence entry and mirrors the
// online-user view.
//
// Acquisition runs on whatever goroutine the source reports connection
// changes on. The online view is rebuilt on the dispatcher and must only be
// read from it.
type Reconciler struct {
	source     adapter.PresenceSource
	dispatcher eventloop.Dispatcher
	renders    RenderRequester

	self models.Identity
	key  string

	online []models.PresenceEntry

	mu         sync.Mutex
	cancelConn adapter.CancelFunc
	cancelFeed adapter.CancelFunc

	// acqMu orders an in-flight acquisition against Close.
	acqMu        sync.Mutex
	closed       atomic.Bool
	offline      atomic.Bool
	acquisitions atomic.Int64

	logger *logger.Logger
}

// NewReconciler returns a reconciler for the session identified by key. The
// view starts out with the local user in it.
func NewReconciler(source adapter.PresenceSource, dispatcher eventloop.Dispatcher, renders RenderRequester, self models.Identity, key string, log *logger.Logger) *Reconciler {
	r := &Reconciler{
		source:     source,
		dispatcher: dispatcher,
		renders:    renders,
		self:       self,
		key:        key,
		logger:     log,
	}
	r.online = BuildOnlineView(nil, r.selfEntry(models.PresenceOnline))
	return r
}

// Start listens to the presence feed and acquires presence on every
// connect. ctx bounds the acquisition requests.
func (r *Reconciler) Start(ctx context.Context) {
	if r.closed.Load() {
		return
	}

	cancelFeed := r.source.Listen(
		func(entries []models.PresenceEntry) {
			r.dispatcher.Post(func() { r.rebuild(entries) })
		},
		func(err error) {
			r.logger.Warn().Err(err).Msg("presence feed error, keeping current view")
		},
	)
	r.mu.Lock()
	r.cancelFeed = cancelFeed
	r.mu.Unlock()

	cancelConn := r.source.OnConnectionStateChange(func(connected bool) {
		if !connected {
			return
		}
		r.acquire(ctx)
	})
	r.mu.Lock()
	r.cancelConn = cancelConn
	r.mu.Unlock()
}

// acquire registers the offline disconnect action and only then marks the
// session online, so the backend can never hold an online entry without a
// pending cleanup.
func (r *Reconciler) acquire(ctx context.Context) {
	if r.closed.Load() {
		return
	}

	offline := r.selfEntry(models.PresenceOffline)
	if err := r.source.RegisterDisconnectAction(ctx, r.key, offline); err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to register disconnect action, staying offline")
		return
	}

	r.acqMu.Lock()
	defer r.acqMu.Unlock()
	if r.closed.Load() {
		return
	}
	if err := r.source.Set(ctx, r.key, r.selfEntry(models.PresenceOnline)); err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to publish online presence")
		return
	}

	r.acquisitions.Add(1)
	r.logger.Debug().Str("key", r.key).Msg("presence acquired")
}

func (r *Reconciler) rebuild(entries []models.PresenceEntry) {
	if r.closed.Load() {
		return
	}

	r.online = BuildOnlineView(entries, r.selfEntry(models.PresenceOnline))
	r.renders.RequestRender()
}

func (r *Reconciler) selfEntry(state models.PresenceState) models.PresenceEntry {
	return r.self.PresenceEntry(r.key, state)
}

// Online returns a copy of the online-user view.
func (r *Reconciler) Online() []models.PresenceEntry {
	out := make([]models.PresenceEntry, len(r.online))
	copy(out, r.online)
	return out
}

// Acquisitions returns how many times presence was successfully acquired.
func (r *Reconciler) Acquisitions() int64 {
	return r.acquisitions.Load()
}

// Detach stops listening to the source. The view keeps its last value.
// It reports whether this call did the detaching.
func (r *Reconciler) Detach() bool {
	if !r.closed.CompareAndSwap(false, true) {
		return false
	}

	r.mu.Lock()
	cancels := []adapter.CancelFunc{r.cancelConn, r.cancelFeed}
	r.cancelConn, r.cancelFeed = nil, nil
	r.mu.Unlock()

	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
	return true
}

// Close detaches from the source and writes the offline entry for a
// graceful sign-out. Nothing is written when presence was never acquired.
// A failed write is returned; the pending disconnect action still cleans up
// when the transport closes. Close may be called more than once and from
// any goroutine.
func (r *Reconciler) Close(ctx context.Context) error {
	r.Detach()

	if !r.offline.CompareAndSwap(false, true) {
		return nil
	}

	// waits for an acquisition that is already publishing online
	r.acqMu.Lock()
	acquired := r.acquisitions.Load() > 0
	r.acqMu.Unlock()
	if !acquired {
		return nil
	}
	if err := r.source.Set(ctx, r.key, r.selfEntry(models.PresenceOffline)); err != nil {
		return fmt.Errorf("error writing offline presence: %w", err)
	}
	return nil
}

// BuildOnlineView derives the online-user view from a full presence feed.
//
// Only online entries count. Entries are deduplicated by user id, keeping
// the most recently changed one. When self's user is missing, self is
// appended. The result is sorted by display name, then user id.
func BuildOnlineView(entries []models.PresenceEntry, self models.PresenceEntry) []models.PresenceEntry {
	byUser := make(map[string]models.PresenceEntry, len(entries)+1)
	for _, e := range entries {
		if !e.Online() || e.UserID == "" {
			continue
		}
		if prev, ok := byUser[e.UserID]; ok && prev.LastChanged.After(e.LastChanged) {
			continue
		}
		byUser[e.UserID] = e
	}
	if _, ok := byUser[self.UserID]; !ok && self.UserID != "" {
		byUser[self.UserID] = self
	}

	out := make([]models.PresenceEntry, 0, len(byUser))
	for _, e := range byUser {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].DisplayName(), out[j].DisplayName()
		if a != b {
			return a < b
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
