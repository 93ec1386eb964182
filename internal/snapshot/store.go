// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package snapshot keeps the authoritative in-memory mirror of every
// collection a session subscribes to.
//
// Every delivery replaces the mirror of its collection wholesale; nothing is
// merged field by field. After applying a batch the store records the
// arrival with the readiness gate and then asks the render scheduler for a
// frame. Deliveries are marshalled onto the session event loop, so the
// store itself is lock-free and must only be used from that loop.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/eventloop"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

var (
	// ErrDuplicateSubscription is returned when a name is already subscribed.
	ErrDuplicateSubscription = errors.New("subscription name already in use")
	// ErrStoreClosed is returned by Subscribe after UnsubscribeAll.
	ErrStoreClosed = errors.New("snapshot store closed")
)

// ArrivalRecorder is told about every applied batch.
type ArrivalRecorder interface {
	RecordArrival(name string) bool
}

// RenderRequester is asked for a render after every applied batch.
type RenderRequester interface {
	RequestRender()
}

// Subscription is one mirrored collection or document.
type Subscription struct {
	name     string
	cancel   adapter.CancelFunc
	closed   bool
	batches  int
	document bool
}

// Name returns the logical name of the subscription.
func (s *Subscription) Name() string { return s.name }

// Batches returns how many deliveries were applied.
func (s *Subscription) Batches() int { return s.batches }

func (s *Subscription) close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Store owns the collection mirrors of one session.
type Store struct {
	source     adapter.CollectionSource
	dispatcher eventloop.Dispatcher
	arrivals   ArrivalRecorder
	renders    RenderRequester

	subs    map[string]*Subscription
	mirrors map[string][]models.Record
	errs    map[string]error
	closed  bool

	logger *logger.Logger
}

// NewStore returns an empty store that subscribes through source and runs
// deliveries through dispatcher.
func NewStore(source adapter.CollectionSource, dispatcher eventloop.Dispatcher, arrivals ArrivalRecorder, renders RenderRequester, log *logger.Logger) *Store {
	return &Store{
		source:     source,
		dispatcher: dispatcher,
		arrivals:   arrivals,
		renders:    renders,
		subs:       make(map[string]*Subscription),
		mirrors:    make(map[string][]models.Record),
		errs:       make(map[string]error),
		logger:     log,
	}
}

// Subscribe mirrors the result set of q under name.
func (s *Store) Subscribe(ctx context.Context, name string, q models.Query) (*Subscription, error) {
	sub, err := s.register(name, false)
	if err != nil {
		return nil, err
	}

	cancel, err := s.source.SubscribeCollection(ctx, q,
		func(records []models.Record) {
			s.dispatcher.Post(func() { s.apply(sub, records) })
		},
		func(err error) {
			s.dispatcher.Post(func() { s.fail(sub, err) })
		},
	)
	return s.attach(sub, cancel, err)
}

// SubscribeDocument mirrors the single document at path under name. The
// mirror holds one record, or none while the document does not exist.
func (s *Store) SubscribeDocument(ctx context.Context, name, path string) (*Subscription, error) {
	sub, err := s.register(name, true)
	if err != nil {
		return nil, err
	}

	cancel, err := s.source.SubscribeDocument(ctx, path,
		func(record *models.Record) {
			var records []models.Record
			if record != nil {
				records = []models.Record{*record}
			}
			s.dispatcher.Post(func() { s.apply(sub, records) })
		},
		func(err error) {
			s.dispatcher.Post(func() { s.fail(sub, err) })
		},
	)
	return s.attach(sub, cancel, err)
}

func (s *Store) register(name string, document bool) (*Subscription, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	if _, ok := s.subs[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscription, name)
	}

	sub := &Subscription{name: name, document: document}
	s.subs[name] = sub
	return sub, nil
}

func (s *Store) attach(sub *Subscription, cancel adapter.CancelFunc, err error) (*Subscription, error) {
	if err != nil {
		delete(s.subs, sub.name)
		sub.closed = true
		return nil, fmt.Errorf("error subscribing to %s: %w", sub.name, err)
	}

	sub.cancel = cancel
	return sub, nil
}

func (s *Store) apply(sub *Subscription, records []models.Record) {
	if sub.closed || s.closed || s.subs[sub.name] != sub {
		return
	}

	s.mirrors[sub.name] = dedupeByID(records)
	delete(s.errs, sub.name)
	sub.batches++

	s.arrivals.RecordArrival(sub.name)
	s.renders.RequestRender()
}

func (s *Store) fail(sub *Subscription, err error) {
	if sub.closed || s.closed {
		return
	}

	s.errs[sub.name] = err
	s.logger.Error().Err(err).
		Str("collection", sub.name).
		Int("mirrored", len(s.mirrors[sub.name])).
		Msg("delivery failed, keeping last known good mirror")
}

// dedupeByID keeps the last occurrence of every id, in first-seen order.
func dedupeByID(records []models.Record) []models.Record {
	index := make(map[string]int, len(records))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// UnsubscribeAll cancels every subscription exactly once. Deliveries that
// arrive afterwards are ignored. It is safe to call repeatedly.
func (s *Store) UnsubscribeAll() {
	if s.closed {
		return
	}
	s.closed = true

	for _, name := range s.Names() {
		s.subs[name].close()
	}
}

// Closed reports whether UnsubscribeAll has run.
func (s *Store) Closed() bool {
	return s.closed
}

// Collection returns a copy of the mirror of name.
func (s *Store) Collection(name string) []models.Record {
	mirror := s.mirrors[name]
	out := make([]models.Record, len(mirror))
	copy(out, mirror)
	return out
}

// Document returns the mirrored document of a document subscription.
func (s *Store) Document(name string) (models.Record, bool) {
	mirror := s.mirrors[name]
	if len(mirror) == 0 {
		return models.Record{}, false
	}
	return mirror[0], true
}

// Has reports whether name has delivered at least one batch.
func (s *Store) Has(name string) bool {
	_, ok := s.mirrors[name]
	return ok
}

// Err returns the last delivery error of name, cleared by the next
// successful batch.
func (s *Store) Err(name string) error {
	return s.errs[name]
}

// Names returns subscribed names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.subs))
	for name := range s.subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
