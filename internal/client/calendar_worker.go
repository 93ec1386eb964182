package client

import (
	"context"
	"time"

	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/internal/session"
	"github.com/sprintboard/sprintboard/models"
)

const readyPollInterval = 200 * time.Millisecond

// calendarWorker keeps the session's calendar section fresh. It waits for
// the session to become ready so the first refresh sees the active sprint.
type calendarWorker struct {
	job      service.CalendarJob
	state    *session.State
	interval time.Duration
}

// Run implements workers.Worker.
func (w *calendarWorker) Run(ctx context.Context) {
	if !w.awaitReady(ctx) {
		return
	}

	w.job.Start(ctx, w.activeSprint, w.interval, w.state.SetCalendar)
	<-ctx.Done()
	w.job.Stop()
}

func (w *calendarWorker) awaitReady(ctx context.Context) bool {
	t := time.NewTicker(readyPollInterval)
	defer t.Stop()

	for {
		var ready bool
		if err := w.state.Query(func() { ready = w.state.Ready() }); err != nil {
			return false
		}
		if ready {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
}

// activeSprint runs on the job goroutine, never on the loop.
func (w *calendarWorker) activeSprint() (models.Sprint, bool) {
	var (
		sprint models.Sprint
		ok     bool
	)
	if err := w.state.Query(func() { sprint, ok = w.state.ActiveSprint() }); err != nil {
		return models.Sprint{}, false
	}
	return sprint, ok
}
