package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCalendar) Authorize(models.Identity) {}

func (f *fakeCalendar) ListSprintEvents(_ context.Context, sprint models.Sprint) ([]models.CalendarEvent, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.CalendarEvent{{ID: "e-" + sprint.ID}}, nil
}

func (f *fakeCalendar) PushSprintEnd(context.Context, models.Sprint) (models.CalendarEvent, error) {
	return models.CalendarEvent{}, nil
}

type deliveries struct {
	mu     sync.Mutex
	events [][]models.CalendarEvent
	errs   []error
}

func (d *deliveries) deliver(events []models.CalendarEvent, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events)
	d.errs = append(d.errs, err)
}

func (d *deliveries) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

func activeSprint() (models.Sprint, bool) {
	return models.Sprint{ID: "s-7", Active: true}, true
}

func TestCalendarJob_RefreshesImmediatelyAndOnTicker(t *testing.T) {
	cal := &fakeCalendar{}
	job := NewCalendarJob(cal, logger.Nop())
	got := &deliveries{}

	job.Start(context.Background(), activeSprint, 10*time.Millisecond, got.deliver)
	require.Eventually(t, func() bool { return got.count() >= 3 }, time.Second, 5*time.Millisecond)
	job.Stop()

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, []models.CalendarEvent{{ID: "e-s-7"}}, got.events[0])
	assert.NoError(t, got.errs[0])
}

func TestCalendarJob_NoActiveSprint(t *testing.T) {
	cal := &fakeCalendar{}
	job := NewCalendarJob(cal, logger.Nop())
	got := &deliveries{}

	job.Start(context.Background(), func() (models.Sprint, bool) { return models.Sprint{}, false }, 5*time.Millisecond, got.deliver)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Zero(t, cal.calls.Load())
	assert.Zero(t, got.count())
}

func TestCalendarJob_DeliversErrors(t *testing.T) {
	boom := errors.New("calendar down")
	cal := &fakeCalendar{err: boom}
	job := NewCalendarJob(cal, logger.Nop())
	got := &deliveries{}

	job.Start(context.Background(), activeSprint, time.Hour, got.deliver)
	require.Eventually(t, func() bool { return got.count() == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.ErrorIs(t, got.errs[0], boom)
}

func TestCalendarJob_StopIsIdempotent(t *testing.T) {
	job := NewCalendarJob(&fakeCalendar{}, logger.Nop())
	assert.NotPanics(t, func() {
		job.Stop()
		job.Stop()
	})
}

func TestCalendarJob_RestartStopsPrevious(t *testing.T) {
	cal := &fakeCalendar{}
	job := NewCalendarJob(cal, logger.Nop())
	first, second := &deliveries{}, &deliveries{}

	job.Start(context.Background(), activeSprint, time.Hour, first.deliver)
	require.Eventually(t, func() bool { return first.count() == 1 }, time.Second, 5*time.Millisecond)

	job.Start(context.Background(), activeSprint, time.Hour, second.deliver)
	require.Eventually(t, func() bool { return second.count() == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()

	assert.Equal(t, 1, first.count())
}

func TestCalendarJob_ContextCancel(t *testing.T) {
	job := NewCalendarJob(&fakeCalendar{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	got := &deliveries{}

	job.Start(ctx, activeSprint, time.Hour, got.deliver)
	require.Eventually(t, func() bool { return got.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not exit after context cancel")
	}
}
