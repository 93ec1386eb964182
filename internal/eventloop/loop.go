// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package eventloop runs the cooperative, single-threaded core of a session.
//
// Every callback that touches core state (collection batches, presence
// deltas, frame ticks) is posted onto one [Loop] and executed in FIFO order on
// its goroutine, so the snapshot store, readiness gate, render scheduler and
// presence reconciler need no locks of their own.
package eventloop

import (
	"errors"
	"sync"

	"github.com/sprintboard/sprintboard/internal/logger"
)

// ErrStopped is returned by [Loop.Do] once the loop has been stopped.
var ErrStopped = errors.New("event loop stopped")

// Dispatcher schedules fn to run on the core goroutine. Post never blocks and
// reports false when fn was dropped because the dispatcher is shut down.
type Dispatcher interface {
	Post(fn func()) bool
}

// Loop is a FIFO task queue drained by a single goroutine started with Run.
// Post is safe to call from any goroutine; the queue is unbounded so network
// goroutines never block on a busy loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	logger *logger.Logger
}

// New returns a loop that is ready to accept posts. Tasks queue up until Run
// is called.
func New(log *logger.Logger) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: log,
	}
}

// Run drains the queue until Stop is called. Tasks still queued when the loop
// stops are dropped.
func (l *Loop) Run() {
	defer close(l.done)

	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
			for {
				task, ok := l.next()
				if !ok {
					break
				}
				l.exec(task)

				select {
				case <-l.stop:
					return
				default:
				}
			}
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("event loop task panicked")
		}
	}()

	task()
}

// Post enqueues fn. It returns false after Stop.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do posts fn and waits until it has run. It must not be called from the loop
// goroutine itself.
func (l *Loop) Do(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Stop makes Run return after the current task and rejects further posts.
// It is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()

		close(l.stop)
	})
}

// Done is closed when Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Inline runs every posted function synchronously on the caller's goroutine.
// Tests use it to drive core components deterministically.
type Inline struct{}

// Post runs fn immediately.
func (Inline) Post(fn func()) bool {
	fn()
	return true
}
