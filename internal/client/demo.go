package client

import (
	"context"
	"fmt"
	"time"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

// Demo account. The demo backend signs its own tokens, so the key never
// leaves the process.
const (
	DemoEmail    = "demo@sprintboard.dev"
	DemoPassword = "demo"

	demoUserID  = "demo-user"
	demoName    = "Demo User"
	demoSignKey = "sprintboard-demo"

	demoActivityInterval = 4 * time.Second
)

type demoTask struct {
	id, title, sprint, epic, assignee string
	status                            models.TaskStatus
	points                            int64
}

var demoTeammates = []models.PresenceEntry{
	{Key: "demo-ana", UserID: "ana", Name: "Ana Ortiz", Email: "ana@sprintboard.dev"},
	{Key: "demo-bo", UserID: "bo", Name: "Bo Lindqvist", Email: "bo@sprintboard.dev"},
	{Key: "demo-chen", UserID: "chen", Name: "Chen Wei", Email: "chen@sprintboard.dev"},
}

var demoTasks = []demoTask{
	{"t-login", "Login screen polish", "s-12", "e-onboarding", "ana", models.StatusDone, 3},
	{"t-invite", "Invite teammates by email", "s-12", "e-onboarding", "bo", models.StatusReview, 5},
	{"t-board", "Drag cards between columns", "s-12", "e-board", "chen", models.StatusInProgress, 8},
	{"t-filters", "Board filters by assignee", "s-12", "e-board", demoUserID, models.StatusTodo, 3},
	{"t-presence", "Show who is online", "s-12", "e-realtime", "ana", models.StatusInProgress, 5},
	{"t-offline", "Offline banner", "s-12", "e-realtime", "bo", models.StatusTodo, 2},
	{"t-export", "CSV export", "", "e-board", "", models.StatusTodo, 3},
	{"t-sso", "Single sign-on", "", "e-onboarding", "", models.StatusTodo, 13},
	{"t-digest", "Weekly email digest", "", "", "", models.StatusTodo, 5},
	{"t-wizard", "Workspace setup wizard", "s-11", "e-onboarding", "chen", models.StatusDone, 8},
}

// seedDemo fills src with a small workspace: a finished sprint, an active
// one, three epics and a backlog.
func seedDemo(src *adapter.MemorySource, now time.Time) {
	day := 24 * time.Hour
	start := now.Truncate(day).Add(-3 * day)

	src.Seed(models.CollectionSprints,
		models.Record{ID: "s-11", Fields: map[string]any{
			"name": "Sprint 11", "goal": "Onboarding flow", "active": false,
			"start": start.Add(-14 * day), "end": start,
		}},
		models.Record{ID: "s-12", Fields: map[string]any{
			"name": "Sprint 12", "goal": "Realtime board", "active": true,
			"start": start, "end": start.Add(14 * day),
		}},
	)

	src.Seed(models.CollectionEpics,
		models.Record{ID: "e-onboarding", Fields: map[string]any{"title": "Onboarding", "color": "#7D56F4"}},
		models.Record{ID: "e-board", Fields: map[string]any{"title": "Kanban board", "color": "#43BF6D"}},
		models.Record{ID: "e-realtime", Fields: map[string]any{"title": "Realtime", "color": "#F25D94"}},
	)

	records := make([]models.Record, 0, len(demoTasks))
	for _, t := range demoTasks {
		records = append(records, models.Record{ID: t.id, Fields: map[string]any{
			"title":    t.title,
			"status":   string(t.status),
			"sprintId": t.sprint,
			"epicId":   t.epic,
			"assignee": t.assignee,
			"points":   t.points,
		}})
	}
	src.Seed(models.CollectionTasks, records...)
}

// seedDemoCalendar adds the sprint ceremonies of the active demo sprint.
func seedDemoCalendar(ctx context.Context, cal *adapter.MemoryCalendar, now time.Time) error {
	day := 24 * time.Hour
	start := now.Truncate(day).Add(-3 * day)

	events := []models.CalendarEvent{
		{Summary: "Sprint 12 planning", Start: start.Add(9 * time.Hour), End: start.Add(10 * time.Hour)},
		{Summary: "Backlog refinement", Start: start.Add(7*day + 14*time.Hour), End: start.Add(7*day + 15*time.Hour)},
		{Summary: "Sprint 12 review", Start: start.Add(13*day + 15*time.Hour), End: start.Add(13*day + 16*time.Hour)},
	}
	for _, ev := range events {
		if _, err := cal.CreateEvent(ctx, ev); err != nil {
			return fmt.Errorf("error seeding demo calendar: %w", err)
		}
	}
	return nil
}

// demoActivity plays the part of the teammates: every tick one of them
// comes online or drops off, and every other tick a sprint task moves one
// column to the right (done tasks start over).
type demoActivity struct {
	source   *adapter.MemorySource
	presence *adapter.MemoryPresence
	interval time.Duration

	step     int
	online   map[string]bool
	statuses map[string]models.TaskStatus

	logger *logger.Logger
}

func newDemoActivity(source *adapter.MemorySource, presence *adapter.MemoryPresence, log *logger.Logger) *demoActivity {
	a := &demoActivity{
		source:   source,
		presence: presence,
		interval: demoActivityInterval,
		online:   make(map[string]bool, len(demoTeammates)),
		statuses: make(map[string]models.TaskStatus, len(demoTasks)),
		logger:   log,
	}
	for _, t := range demoTasks {
		a.statuses[t.id] = t.status
	}
	return a
}

// greet puts every teammate online.
func (a *demoActivity) greet() {
	for _, mate := range demoTeammates {
		a.setOnline(mate, true)
	}
}

func (a *demoActivity) setOnline(mate models.PresenceEntry, online bool) {
	mate.State = models.PresenceOffline
	if online {
		mate.State = models.PresenceOnline
	}
	mate.LastChanged = time.Time{}
	a.online[mate.UserID] = online
	a.presence.Put(mate)
}

// Run implements workers.Worker.
func (a *demoActivity) Run(ctx context.Context) {
	t := time.NewTicker(a.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.tick(ctx)
		}
	}
}

func (a *demoActivity) tick(ctx context.Context) {
	defer func() { a.step++ }()

	mate := demoTeammates[a.step%len(demoTeammates)]
	a.setOnline(mate, !a.online[mate.UserID])

	if a.step%2 == 1 {
		return
	}

	var sprintTasks []demoTask
	for _, t := range demoTasks {
		if t.sprint == "s-12" && t.assignee != demoUserID {
			sprintTasks = append(sprintTasks, t)
		}
	}
	task := sprintTasks[(a.step/2)%len(sprintTasks)]

	next := a.statuses[task.id].Next()
	if a.statuses[task.id] == models.StatusDone {
		next = models.StatusTodo
	}

	err := a.source.WriteBatch(ctx, []models.Patch{
		{Path: models.CollectionTasks + "/" + task.id, Fields: map[string]any{"status": string(next), "updatedAt": models.ServerTimestamp}},
		{Path: models.CollectionSprints + "/" + task.sprint, Fields: map[string]any{"updatedAt": models.ServerTimestamp}},
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("task_id", task.id).Msg("demo activity write failed")
		return
	}
	a.statuses[task.id] = next
}
