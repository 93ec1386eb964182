package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTaskID      = errors.New("task id is required")
	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrNegativePoints   = errors.New("story points cannot be negative")
	ErrEmptySummary     = errors.New("event summary is required")
	ErrInvalidTimeRange = errors.New("event must end after it starts")
	ErrEmptySprintID    = errors.New("sprint id is required")
)
