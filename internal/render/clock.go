package render

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sprintboard/sprintboard/internal/eventloop"
)

// FrameClock runs fn on the next display frame. The returned cancel prevents
// fn from running if it has not run yet; it is idempotent.
type FrameClock interface {
	AfterFrame(fn func()) (cancel func())
}

// TimerClock divides time into fixed frames starting at its creation and
// posts frame callbacks onto a dispatcher. Rescheduling within one frame
// targets the same frame boundary, so a steady stream of requests cannot
// postpone rendering indefinitely.
type TimerClock struct {
	interval   time.Duration
	dispatcher eventloop.Dispatcher
	epoch      time.Time
	now        func() time.Time
}

// NewTimerClock returns a clock with the given frame interval.
func NewTimerClock(interval time.Duration, dispatcher eventloop.Dispatcher) *TimerClock {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TimerClock{
		interval:   interval,
		dispatcher: dispatcher,
		epoch:      time.Now(),
		now:        time.Now,
	}
}

// AfterFrame implements FrameClock.
func (c *TimerClock) AfterFrame(fn func()) func() {
	var cancelled atomic.Bool
	timer := time.AfterFunc(c.untilNextFrame(), func() {
		c.dispatcher.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})

	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

func (c *TimerClock) untilNextFrame() time.Duration {
	elapsed := c.now().Sub(c.epoch)
	next := (elapsed/c.interval + 1) * c.interval
	return next - elapsed
}

// ManualClock is a FrameClock driven by Tick. Tests use it to control
// exactly when frames fire.
type ManualClock struct {
	mu      sync.Mutex
	pending []*manualFrame
}

type manualFrame struct {
	fn        func()
	cancelled bool
}

// NewManualClock returns a clock with no pending frames.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFrame implements FrameClock.
func (c *ManualClock) AfterFrame(fn func()) func() {
	f := &manualFrame{fn: fn}

	c.mu.Lock()
	c.pending = append(c.pending, f)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		f.cancelled = true
		c.mu.Unlock()
	}
}

// Tick advances one frame: every callback scheduled before the call and not
// cancelled runs, in scheduling order. It returns how many ran.
func (c *ManualClock) Tick() int {
	c.mu.Lock()
	due := c.pending
	c.pending = nil
	c.mu.Unlock()

	ran := 0
	for _, f := range due {
		c.mu.Lock()
		cancelled := f.cancelled
		c.mu.Unlock()
		if cancelled {
			continue
		}
		f.fn()
		ran++
	}
	return ran
}

// Pending returns how many scheduled callbacks are not cancelled.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, f := range c.pending {
		if !f.cancelled {
			n++
		}
	}
	return n
}
