package service

import (
	"context"
	"time"

	"github.com/sprintboard/sprintboard/models"
)

// AuthService owns the signed-in identity of the process.
type AuthService interface {
	// SignIn authenticates with email and password and remembers the
	// resulting identity. Returns ErrEmptyCredentials when either value is
	// blank and ErrWrongPassword when the provider rejects them.
	SignIn(ctx context.Context, email, password string) (models.Identity, error)

	// Reauthorize exchanges the remembered refresh token for a fresh id
	// token. Returns ErrNotSignedIn before the first successful SignIn.
	Reauthorize(ctx context.Context) (models.Identity, error)

	// Identity returns the current identity and whether one is set.
	Identity() (models.Identity, bool)
}

// TaskService performs user-initiated task writes. Writes are never retried;
// a failure is returned to the caller, which surfaces it as a notice. The
// mirrors are not touched: the change shows up through the next delivery.
type TaskService interface {
	// AdvanceStatus moves task to the next board column. The task status and
	// the updatedAt timestamp of its sprint are written in one all-or-nothing
	// batch. Returns the new status, or ErrAlreadyDone for a finished task.
	AdvanceStatus(ctx context.Context, task models.Task) (models.TaskStatus, error)

	// Delete removes the task identified by taskID.
	Delete(ctx context.Context, taskID string) error

	// CreateBacklogTask creates a task outside any sprint and returns its id.
	CreateBacklogTask(ctx context.Context, title string, points int64) (string, error)
}

// CalendarService talks to the user's calendar. Every call is retried exactly
// once after one transparent re-authorization when the calendar rejects the
// token; a second rejection is returned.
type CalendarService interface {
	// Authorize attaches identity's token to subsequent calendar calls.
	Authorize(identity models.Identity)

	// ListSprintEvents returns the events inside the sprint window. A sprint
	// without a start date is treated as starting now.
	ListSprintEvents(ctx context.Context, sprint models.Sprint) ([]models.CalendarEvent, error)

	// PushSprintEnd creates an event marking the end of sprint.
	PushSprintEnd(ctx context.Context, sprint models.Sprint) (models.CalendarEvent, error)
}

// CalendarJob periodically refreshes the calendar events of the active
// sprint in the background.
type CalendarJob interface {
	// Start launches the refresh goroutine. sprint is asked for the active
	// sprint before every refresh and the result is handed to deliver, which
	// runs on the job goroutine. A running job is stopped first. The
	// goroutine exits when ctx is cancelled or Stop is called.
	Start(ctx context.Context, sprint func() (models.Sprint, bool), interval time.Duration, deliver func([]models.CalendarEvent, error))

	// Stop cancels the refresh goroutine and waits for it to exit. Safe to
	// call when the job is not running.
	Stop()
}

// PresenceHub is the server side of the presence protocol. Every open
// connection joins as one session of one workspace.
type PresenceHub interface {
	// Join registers a session of user in workspace. send receives the
	// connected frame, the current feed and every later feed of the
	// workspace; it must not block and reports false when the frame was
	// dropped.
	Join(ctx context.Context, workspace string, user models.IdentityClaims, send func(models.PresenceMessage) bool) (string, error)

	// Set writes entry at key and broadcasts the new feed. The entry must
	// belong to the session's user.
	Set(ctx context.Context, sessionID, key string, entry models.PresenceEntry) error

	// RegisterDisconnect stores entry to be written at key when the session
	// leaves. A later registration for the same key replaces the earlier.
	RegisterDisconnect(ctx context.Context, sessionID, key string, entry models.PresenceEntry) error

	// Leave ends the session, applies its disconnect actions and broadcasts
	// the result. It returns how many actions were applied; a second call
	// for the same session applies none.
	Leave(ctx context.Context, sessionID string) int

	// Sessions returns the number of open sessions in workspace.
	Sessions(workspace string) int
}
