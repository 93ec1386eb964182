// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/models"
)

const defaultCalendarRate = 5

type calendarTime struct {
	DateTime time.Time `json:"dateTime"`
}

type calendarEvent struct {
	ID      string       `json:"id,omitempty"`
	Summary string       `json:"summary"`
	Start   calendarTime `json:"start"`
	End     calendarTime `json:"end"`
}

type calendarEventList struct {
	Items []calendarEvent `json:"items"`
}

type httpCalendarAdapter struct {
	client  *utils.HTTPClient
	limiter *rate.Limiter

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPCalendarAdapter returns a [CalendarAdapter] for the primary
// calendar of the token owner. Calls are rate limited to
// adapterCfg.CalendarRateLimit per second.
func NewHTTPCalendarAdapter(adapterCfg config.ClientAdapter, log *logger.Logger) CalendarAdapter {
	limit := adapterCfg.CalendarRateLimit
	if limit <= 0 {
		limit = defaultCalendarRate
	}

	return &httpCalendarAdapter{
		client:  utils.NewHTTPClient(adapterCfg.CalendarURL, adapterCfg.RequestTimeout),
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		logger:  log,
	}
}

// SetToken implements [CalendarAdapter].
func (c *httpCalendarAdapter) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *httpCalendarAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("calendar rate limiter: %w", err)
	}

	req := c.client.R().SetContext(ctx)
	c.mu.RLock()
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	c.mu.RUnlock()
	return req, nil
}

// ListEvents implements [CalendarAdapter].
func (c *httpCalendarAdapter) ListEvents(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	req, err := c.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	var body calendarEventList
	resp, err := req.
		SetQueryParams(map[string]string{
			"timeMin":      from.UTC().Format(time.RFC3339),
			"timeMax":      to.UTC().Format(time.RFC3339),
			"singleEvents": "true",
			"orderBy":      "startTime",
		}).
		SetResult(&body).
		Get("/calendars/primary/events")
	if err != nil {
		return nil, fmt.Errorf("list events request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(body.Items))
	for _, item := range body.Items {
		events = append(events, item.model())
	}
	return events, nil
}

// CreateEvent implements [CalendarAdapter].
func (c *httpCalendarAdapter) CreateEvent(ctx context.Context, ev models.CalendarEvent) (models.CalendarEvent, error) {
	req, err := c.authedRequest(ctx)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	var created calendarEvent
	resp, err := req.
		SetBody(calendarEvent{
			Summary: ev.Summary,
			Start:   calendarTime{DateTime: ev.Start},
			End:     calendarTime{DateTime: ev.End},
		}).
		SetResult(&created).
		Post("/calendars/primary/events")
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("create event request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CalendarEvent{}, err
	}

	return created.model(), nil
}

func (e calendarEvent) model() models.CalendarEvent {
	return models.CalendarEvent{
		ID:      e.ID,
		Summary: e.Summary,
		Start:   e.Start.DateTime,
		End:     e.End.DateTime,
	}
}
