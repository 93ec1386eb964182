package validators

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sprintboard/sprintboard/models"
)

const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldStatus   = "status"
	FieldPoints   = "points"
	FieldSprintID = "sprint_id"
	FieldSummary  = "summary"
	FieldTimes    = "times"
)

// MaxTitleLength is the longest task title accepted, in runes.
const MaxTitleLength = 200

type TaskValidator struct {
}

func NewTaskValidator() Validator {
	return &TaskValidator{}
}

func (v *TaskValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Task:
		return v.validateTask(ctx, value, fields...)
	case *models.Task:
		return v.validateTask(ctx, *value, fields...)

	case models.Sprint:
		return v.validateSprint(ctx, value, fields...)
	case *models.Sprint:
		return v.validateSprint(ctx, *value, fields...)

	case models.CalendarEvent:
		return v.validateEvent(ctx, value, fields...)
	case *models.CalendarEvent:
		return v.validateEvent(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *TaskValidator) validateTask(_ context.Context, task models.Task, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldTitle, FieldStatus, FieldPoints}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if task.ID == "" {
				return ErrEmptyTaskID
			}
		case FieldTitle:
			title := strings.TrimSpace(task.Title)
			if title == "" {
				return ErrEmptyTitle
			}
			if utf8.RuneCountInString(title) > MaxTitleLength {
				return fmt.Errorf("%w: %d runes, at most %d", ErrTitleTooLong, utf8.RuneCountInString(title), MaxTitleLength)
			}
		case FieldStatus:
			if !slices.Contains(models.BoardColumns, task.Status) {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, task.Status)
			}
		case FieldPoints:
			if task.Points < 0 {
				return ErrNegativePoints
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func (v *TaskValidator) validateSprint(_ context.Context, sprint models.Sprint, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSprintID, FieldTimes}
	}

	for _, f := range fields {
		switch f {
		case FieldSprintID:
			if sprint.ID == "" {
				return ErrEmptySprintID
			}
		case FieldTimes:
			if sprint.End.IsZero() || (!sprint.Start.IsZero() && !sprint.End.After(sprint.Start)) {
				return ErrInvalidTimeRange
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func (v *TaskValidator) validateEvent(_ context.Context, ev models.CalendarEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSummary, FieldTimes}
	}

	for _, f := range fields {
		switch f {
		case FieldSummary:
			if strings.TrimSpace(ev.Summary) == "" {
				return ErrEmptySummary
			}
		case FieldTimes:
			if !ev.End.After(ev.Start) {
				return ErrInvalidTimeRange
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}
