// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session wires one signed-in session of the board: the event loop,
// the snapshot store, the readiness gate, the render scheduler and the
// presence reconciler.
//
// A [State] is the only owner of those components. Everything it exposes
// for reading (Collection, Ready, Online, ...) must be called on the loop,
// i.e. from the render hook or through [State.Query].
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/eventloop"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/presence"
	"github.com/sprintboard/sprintboard/internal/readiness"
	"github.com/sprintboard/sprintboard/internal/render"
	"github.com/sprintboard/sprintboard/internal/snapshot"
	"github.com/sprintboard/sprintboard/models"
)

var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrTornDown       = errors.New("session torn down")
)

// Config describes what a session mirrors.
type Config struct {
	// Collections are mirrored in full.
	Collections []string

	// Gating are the collections that must deliver once before anything is
	// rendered. They are mirrored even when missing from Collections.
	Gating []string

	// PresenceKey identifies this session in the presence feed.
	PresenceKey string

	FrameInterval time.Duration
}

// Option customises a State.
type Option func(*State)

// WithClock replaces the frame timer.
func WithClock(clock render.FrameClock) Option {
	return func(s *State) { s.clock = clock }
}

// State is one running session.
type State struct {
	cfg  Config
	self models.Identity

	source   adapter.CollectionSource
	presence adapter.PresenceSource

	loop       *eventloop.Loop
	clock      render.FrameClock
	gate       *readiness.Gate
	scheduler  *render.Scheduler
	store      *snapshot.Store
	reconciler *presence.Reconciler

	calendar    []models.CalendarEvent
	calendarErr error

	onRender func(*State)

	started      atomic.Bool
	teardownOnce sync.Once
	teardownErr  error

	logger *logger.Logger
}

// New assembles a session. Nothing is subscribed until Start. onRender runs
// on the loop, once per frame in which a render was requested, and only
// after every gating collection has delivered.
func New(cfg Config, source adapter.CollectionSource, presenceSource adapter.PresenceSource, self models.Identity, onRender func(*State), log *logger.Logger, opts ...Option) *State {
	s := &State{
		cfg:      cfg,
		self:     self,
		source:   source,
		presence: presenceSource,
		onRender: onRender,
		logger:   log,
	}
	s.loop = eventloop.New(log.Component("eventloop"))
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = render.NewTimerClock(cfg.FrameInterval, s.loop)
	}

	s.gate = readiness.NewGate(cfg.Gating...)
	s.scheduler = render.NewScheduler(s.clock, s.gate, s.render, log.Component("render"))
	s.gate.OnReady(func() {
		log.Info().Int("collections", s.gate.Target()).Msg("all gating collections arrived")
		s.scheduler.RequestRender()
	})
	s.store = snapshot.NewStore(source, s.loop, s.gate, s.scheduler, log.Component("snapshot"))
	s.reconciler = presence.NewReconciler(presenceSource, s.loop, s.scheduler, self, cfg.PresenceKey, log.Component("presence"))

	return s
}

func (s *State) render() {
	if s.onRender != nil {
		s.onRender(s)
	}
}

// Start runs the loop, subscribes every collection and starts presence. A
// failed subscription is returned; the caller is expected to Teardown.
func (s *State) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go s.loop.Run()

	var startErr error
	err := s.loop.Do(func() {
		if s.store.Closed() {
			startErr = ErrTornDown
			return
		}
		for _, name := range s.collections() {
			if _, err := s.store.Subscribe(ctx, name, models.Query{Collection: name}); err != nil {
				startErr = fmt.Errorf("error starting session: %w", err)
				return
			}
		}
		s.reconciler.Start(ctx)
	})
	if err != nil {
		return ErrTornDown
	}
	if startErr != nil {
		return startErr
	}

	s.logger.Info().
		Strs("collections", s.collections()).
		Strs("gating", s.cfg.Gating).
		Str("presence_key", s.cfg.PresenceKey).
		Msg("session started")
	return nil
}

func (s *State) collections() []string {
	out := slices.Clone(s.cfg.Collections)
	for _, name := range s.cfg.Gating {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// Teardown cancels every subscription and the presence listeners, writes
// the offline presence entry, closes the presence transport and stops the
// loop. Posts after Teardown are dropped. It is idempotent and returns the
// result of the first call.
func (s *State) Teardown(ctx context.Context) error {
	s.teardownOnce.Do(func() {
		detach := func() {
			s.store.UnsubscribeAll()
			s.scheduler.Stop()
			s.reconciler.Detach()
		}
		if s.started.Load() {
			if err := s.loop.Do(detach); err != nil {
				s.logger.Warn().Err(err).Msg("loop already stopped during teardown")
			}
		} else {
			detach()
		}

		var errs []error
		if err := s.reconciler.Close(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("graceful presence sign-out failed")
			errs = append(errs, err)
		}
		if err := s.presence.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing presence: %w", err))
		}

		s.loop.Stop()
		s.teardownErr = errors.Join(errs...)
		s.logger.Info().Msg("session torn down")
	})
	return s.teardownErr
}

// Query runs fn on the loop and waits for it to finish. It must not be
// called from the loop.
func (s *State) Query(fn func()) error {
	return s.loop.Do(fn)
}

// Post runs fn on the loop without waiting.
func (s *State) Post(fn func()) bool {
	return s.loop.Post(fn)
}

// SetCalendar stores the latest calendar refresh and requests a render. It
// may be called from any goroutine.
func (s *State) SetCalendar(events []models.CalendarEvent, err error) {
	s.loop.Post(func() {
		if err == nil {
			s.calendar = events
		}
		s.calendarErr = err
		s.scheduler.RequestRender()
	})
}

// Self returns the signed-in identity.
func (s *State) Self() models.Identity { return s.self }

// Collection returns a copy of the mirror of name.
func (s *State) Collection(name string) []models.Record { return s.store.Collection(name) }

// CollectionErr returns the last delivery error of name.
func (s *State) CollectionErr(name string) error { return s.store.Err(name) }

// Ready reports whether every gating collection has delivered.
func (s *State) Ready() bool { return s.gate.Ready() }

// Progress returns how many gating collections have arrived out of how many.
func (s *State) Progress() (arrived, target int) { return s.gate.Arrived(), s.gate.Target() }

// Online returns the online-user view.
func (s *State) Online() []models.PresenceEntry { return s.reconciler.Online() }

// Calendar returns the last successfully fetched calendar events and the
// error of the latest refresh.
func (s *State) Calendar() ([]models.CalendarEvent, error) {
	return slices.Clone(s.calendar), s.calendarErr
}

// ActiveSprint returns the first sprint flagged active.
func (s *State) ActiveSprint() (models.Sprint, bool) {
	for _, r := range s.store.Collection(models.CollectionSprints) {
		sprint := models.SprintFromRecord(r)
		if sprint.Active {
			return sprint, true
		}
	}
	return models.Sprint{}, false
}

// RenderStats returns the scheduler counters.
func (s *State) RenderStats() (requests, renders, skipped uint64) {
	return s.scheduler.Requests(), s.scheduler.Renders(), s.scheduler.Skipped()
}
