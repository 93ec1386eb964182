package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

func collect(t *testing.T, src *adapter.MemorySource, collection string) []models.Record {
	t.Helper()

	var (
		mu  sync.Mutex
		got []models.Record
		set bool
	)
	cancel, err := src.SubscribeCollection(context.Background(), models.Query{Collection: collection}, func(records []models.Record) {
		mu.Lock()
		defer mu.Unlock()
		got, set = records, true
	}, func(error) {})
	require.NoError(t, err)
	defer cancel()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return set
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	return got
}

func TestSeedDemo(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	src := adapter.NewMemorySource()
	seedDemo(src, now)

	sprints := collect(t, src, models.CollectionSprints)
	require.Len(t, sprints, 2)

	var active []models.Sprint
	for _, r := range sprints {
		if sp := models.SprintFromRecord(r); sp.Active {
			active = append(active, sp)
		}
	}
	require.Len(t, active, 1)
	assert.Equal(t, "s-12", active[0].ID)
	assert.True(t, active[0].Start.Before(now))
	assert.True(t, active[0].End.After(now))

	assert.Len(t, collect(t, src, models.CollectionEpics), 3)

	tasks := collect(t, src, models.CollectionTasks)
	require.Len(t, tasks, len(demoTasks))
	for _, r := range tasks {
		task := models.TaskFromRecord(r)
		assert.NotEmpty(t, task.Title, task.ID)
		assert.Positive(t, task.Points, task.ID)
	}
}

func TestSeedDemoCalendar(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	cal := adapter.NewMemoryCalendar()

	require.NoError(t, seedDemoCalendar(context.Background(), cal, now))

	events, err := cal.ListEvents(context.Background(), now.Add(-30*24*time.Hour), now.Add(30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Sprint 12 planning", events[0].Summary)
}

func TestDemoActivity_Tick(t *testing.T) {
	src := adapter.NewMemorySource()
	seedDemo(src, time.Now())
	presence := adapter.NewMemoryPresence()
	presence.SetConnected(true)

	a := newDemoActivity(src, presence, logger.Nop())
	a.greet()
	for _, mate := range demoTeammates {
		entry, ok := presence.Entry(mate.Key)
		require.True(t, ok, mate.Key)
		assert.True(t, entry.Online(), mate.Key)
	}

	ctx := context.Background()

	// first tick: Ana drops off and her done task starts over
	a.tick(ctx)
	entry, _ := presence.Entry("demo-ana")
	assert.False(t, entry.Online())

	batches := src.Batches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "tasks/t-login", batches[0][0].Path)
	assert.Equal(t, string(models.StatusTodo), batches[0][0].Fields["status"])
	assert.Equal(t, "sprints/s-12", batches[0][1].Path)

	// second tick only touches presence
	a.tick(ctx)
	entry, _ = presence.Entry("demo-bo")
	assert.False(t, entry.Online())
	assert.Len(t, src.Batches(), 1)

	// third tick moves the next teammate task
	a.tick(ctx)
	batches = src.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, "tasks/t-invite", batches[1][0].Path)
	assert.Equal(t, string(models.StatusDone), batches[1][0].Fields["status"])

	// fourth tick brings Ana back
	a.tick(ctx)
	entry, _ = presence.Entry("demo-ana")
	assert.True(t, entry.Online())
}

func TestDemoActivity_WriteFailureKeepsStatus(t *testing.T) {
	src := adapter.NewMemorySource()
	seedDemo(src, time.Now())
	presence := adapter.NewMemoryPresence()

	a := newDemoActivity(src, presence, logger.Nop())
	src.FailWrites(assert.AnError)

	a.tick(context.Background())

	assert.Equal(t, models.StatusDone, a.statuses["t-login"])
	assert.Empty(t, src.Batches())
}
