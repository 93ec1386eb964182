package models

import "time"

// CalendarEvent is the minimal event shape exchanged with the calendar API.
type CalendarEvent struct {
	ID      string    `json:"id,omitempty"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}
