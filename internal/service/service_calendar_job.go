package service

import (
	"context"
	"sync"
	"time"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

// defaultCalendarRefresh is used when Start gets a non-positive interval.
const defaultCalendarRefresh = 5 * time.Minute

type calendarJob struct {
	calendar CalendarService
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCalendarJob creates a calendarJob that calls calendar.ListSprintEvents
// on a ticker. The job is idle until Start is called.
func NewCalendarJob(calendar CalendarService, logger *logger.Logger) CalendarJob {
	return &calendarJob{calendar: calendar, logger: logger}
}

// Start implements CalendarJob. The first refresh runs immediately.
func (j *calendarJob) Start(ctx context.Context, sprint func() (models.Sprint, bool), interval time.Duration, deliver func([]models.CalendarEvent, error)) {
	if interval <= 0 {
		interval = defaultCalendarRefresh
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			j.refresh(jobCtx, sprint, deliver)

			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

func (j *calendarJob) refresh(ctx context.Context, sprint func() (models.Sprint, bool), deliver func([]models.CalendarEvent, error)) {
	active, ok := sprint()
	if !ok {
		return
	}

	events, err := j.calendar.ListSprintEvents(ctx, active)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		j.logger.Warn().Err(err).Str("sprint_id", active.ID).Msg("calendar refresh failed")
	}
	deliver(events, err)
}

// Stop implements CalendarJob.
func (j *calendarJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
