// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package render coalesces "something changed" signals into at most one
// render pass per display frame.
//
// [Scheduler.RequestRender] cancels the pending frame and schedules a new one
// on a [FrameClock]. When the frame fires the render hook runs only if the
// readiness gate is open; a frame that fires while loading is dropped, not
// deferred.
package render

import (
	"github.com/sprintboard/sprintboard/internal/logger"
)

// ReadyChecker reports whether first paint is allowed.
type ReadyChecker interface {
	Ready() bool
}

// Scheduler is confined to the session event loop; its methods and the
// callbacks it hands to the clock must all run there.
type Scheduler struct {
	clock  FrameClock
	gate   ReadyChecker
	render func()

	cancel     func()
	generation uint64
	stopped    bool

	requests uint64
	renders  uint64
	skipped  uint64

	logger *logger.Logger
}

// NewScheduler returns a scheduler that calls render on frames of clock while
// gate is ready.
func NewScheduler(clock FrameClock, gate ReadyChecker, render func(), log *logger.Logger) *Scheduler {
	return &Scheduler{
		clock:  clock,
		gate:   gate,
		render: render,
		logger: log,
	}
}

// RequestRender schedules a render on the next frame, replacing any frame
// that is scheduled but has not fired yet.
func (s *Scheduler) RequestRender() {
	if s.stopped {
		return
	}

	s.requests++
	if s.cancel != nil {
		s.cancel()
	}

	s.generation++
	gen := s.generation
	s.cancel = s.clock.AfterFrame(func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	// a cancel that raced with the timer leaves an older generation behind
	if s.stopped || gen != s.generation {
		return
	}
	s.cancel = nil

	if !s.gate.Ready() {
		s.skipped++
		s.logger.Debug().Uint64("generation", gen).Msg("frame skipped while loading")
		return
	}

	s.renders++
	s.render()
}

// Pending reports whether a frame is scheduled.
func (s *Scheduler) Pending() bool {
	return s.cancel != nil
}

// Stop cancels the pending frame. Later requests are ignored.
func (s *Scheduler) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Requests returns how many times RequestRender was accepted.
func (s *Scheduler) Requests() uint64 { return s.requests }

// Renders returns how many render passes ran.
func (s *Scheduler) Renders() uint64 { return s.renders }

// Skipped returns how many frames fired while the gate was loading.
func (s *Scheduler) Skipped() uint64 { return s.skipped }
