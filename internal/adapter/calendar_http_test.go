package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(url string) CalendarAdapter {
	return NewHTTPCalendarAdapter(config.ClientAdapter{
		CalendarURL:       url,
		CalendarRateLimit: 1000,
		RequestTimeout:    5 * time.Second,
	}, logger.Nop())
}

func TestCalendar_ListEvents(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(14 * 24 * time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, from.Format(time.RFC3339), r.URL.Query().Get("timeMin"))
		assert.Equal(t, to.Format(time.RFC3339), r.URL.Query().Get("timeMax"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(calendarEventList{Items: []calendarEvent{{
			ID:      "e1",
			Summary: "Sprint review",
			Start:   calendarTime{DateTime: from.Add(time.Hour)},
			End:     calendarTime{DateTime: from.Add(2 * time.Hour)},
		}}})
	}))
	defer srv.Close()

	cal := newTestCalendar(srv.URL)
	cal.SetToken(" tok ")

	events, err := cal.ListEvents(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "Sprint review", events[0].Summary)
	assert.True(t, events[0].Start.Equal(from.Add(time.Hour)))
}

func TestCalendar_CreateEvent(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var got calendarEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Sprint 4 ends", got.Summary)
		got.ID = "created"

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	cal := newTestCalendar(srv.URL)
	cal.SetToken("tok")
	ev, err := cal.CreateEvent(context.Background(), models.CalendarEvent{
		Summary: "Sprint 4 ends",
		Start:   start,
		End:     start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "created", ev.ID)
}

func TestCalendar_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestCalendar(srv.URL).ListEvents(context.Background(), time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCalendar_RateLimiterHonoursContext(t *testing.T) {
	cal := NewHTTPCalendarAdapter(config.ClientAdapter{
		CalendarURL:       "http://127.0.0.1:1",
		CalendarRateLimit: 0.001,
	}, logger.Nop()).(*httpCalendarAdapter)
	require.True(t, cal.limiter.Allow(), "drain the single burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := cal.ListEvents(ctx, time.Now(), time.Now())
	assert.ErrorContains(t, err, "rate limiter")
}
