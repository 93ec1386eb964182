package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/validators"
	"github.com/sprintboard/sprintboard/models"
)

// sprintEndEventLength is the duration of the event pushed for a sprint end.
const sprintEndEventLength = 30 * time.Minute

type calendarService struct {
	calendar  adapter.CalendarAdapter
	auth      AuthService
	validator validators.Validator
	now       func() time.Time
	logger    *logger.Logger
}

func NewCalendarService(calendar adapter.CalendarAdapter, auth AuthService, logger *logger.Logger) CalendarService {
	return &calendarService{
		calendar:  calendar,
		auth:      auth,
		validator: validators.NewTaskValidator(),
		now:       time.Now,
		logger:    logger,
	}
}

func (c *calendarService) Authorize(identity models.Identity) {
	c.calendar.SetToken(identity.IDToken)
}

func (c *calendarService) ListSprintEvents(ctx context.Context, sprint models.Sprint) ([]models.CalendarEvent, error) {
	if sprint.Start.IsZero() {
		sprint.Start = c.now()
	}
	if err := c.validator.Validate(ctx, sprint, validators.FieldTimes); err != nil {
		return nil, fmt.Errorf("error validating sprint window: %w", err)
	}

	return withReauth(ctx, c, func() ([]models.CalendarEvent, error) {
		return c.calendar.ListEvents(ctx, sprint.Start, sprint.End)
	})
}

func (c *calendarService) PushSprintEnd(ctx context.Context, sprint models.Sprint) (models.CalendarEvent, error) {
	ev := models.CalendarEvent{
		Summary: fmt.Sprintf("%s ends", sprint.Name),
		Start:   sprint.End,
		End:     sprint.End.Add(sprintEndEventLength),
	}
	if sprint.Name == "" {
		ev.Summary = "Sprint ends"
	}
	if err := c.validator.Validate(ctx, sprint); err != nil {
		return models.CalendarEvent{}, err
	}
	if err := c.validator.Validate(ctx, ev); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("error validating sprint end event: %w", err)
	}

	return withReauth(ctx, c, func() (models.CalendarEvent, error) {
		return c.calendar.CreateEvent(ctx, ev)
	})
}

// withReauth runs call and, when the calendar rejects the token, refreshes
// the identity once and retries once.
func withReauth[T any](ctx context.Context, c *calendarService, call func() (T, error)) (T, error) {
	out, err := call()
	if err == nil || !errors.Is(err, adapter.ErrUnauthorized) {
		return out, err
	}

	c.logger.Info().Err(err).Msg("calendar rejected token, re-authorizing")

	var zero T
	identity, authErr := c.auth.Reauthorize(ctx)
	if authErr != nil {
		c.logger.Error().Err(authErr).Msg("calendar re-authorization failed")
		return zero, fmt.Errorf("%w: %w", ErrReauthorizationFailed, authErr)
	}
	c.calendar.SetToken(identity.IDToken)

	out, err = call()
	if err != nil {
		c.logger.Error().Err(err).Msg("calendar call failed after re-authorization")
		return zero, fmt.Errorf("error calling calendar after re-authorization: %w", err)
	}
	return out, nil
}
