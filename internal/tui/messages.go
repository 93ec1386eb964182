package tui

import "github.com/sprintboard/sprintboard/models"

// FrameMsg delivers a new frame from the session's render hook.
type FrameMsg struct {
	Frame Frame
}

type taskAdvancedMsg struct {
	title  string
	status models.TaskStatus
	err    error
}

type taskDeletedMsg struct {
	title string
	err   error
}

type taskCreatedMsg struct {
	title string
	err   error
}

type sprintPushedMsg struct {
	event models.CalendarEvent
	err   error
}

type clearNoticeMsg struct {
	seq int
}

// LoginResult is produced by the login form's sign-in command.
type LoginResult struct {
	Identity models.Identity
	Err      error
}
