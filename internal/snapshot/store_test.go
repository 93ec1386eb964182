package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/eventloop"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/mock"
	"github.com/sprintboard/sprintboard/internal/readiness"
	"github.com/sprintboard/sprintboard/internal/render"
	"github.com/sprintboard/sprintboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type spyArrivals struct{ names []string }

func (s *spyArrivals) RecordArrival(name string) bool {
	s.names = append(s.names, name)
	return false
}

type spyRenders struct {
	calls int
	// order records "render" after each arrival to check sequencing
	order *[]string
}

func (s *spyRenders) RequestRender() {
	s.calls++
	if s.order != nil {
		*s.order = append(*s.order, "render")
	}
}

type orderedArrivals struct{ order *[]string }

func (o orderedArrivals) RecordArrival(name string) bool {
	*o.order = append(*o.order, "arrival:"+name)
	return false
}

func rec(id string) models.Record {
	return models.Record{ID: id, Fields: map[string]any{"title": id}}
}

func recordIDs(records []models.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func newTestStore(src adapter.CollectionSource) (*Store, *spyArrivals, *spyRenders) {
	arrivals := &spyArrivals{}
	renders := &spyRenders{}
	return NewStore(src, eventloop.Inline{}, arrivals, renders, logger.Nop()), arrivals, renders
}

func TestStore_BatchReplacesMirror(t *testing.T) {
	src := adapter.NewMemorySource()
	s, _, _ := newTestStore(src)

	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)

	src.Deliver("tasks", rec("A"), rec("B"), rec("C"))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, recordIDs(s.Collection("tasks")))

	src.Deliver("tasks", rec("D"), rec("C"), rec("B"))
	assert.ElementsMatch(t, []string{"B", "C", "D"}, recordIDs(s.Collection("tasks")))
}

func TestStore_EmptyBatchClearsMirror(t *testing.T) {
	src := adapter.NewMemorySource()
	s, arrivals, _ := newTestStore(src)

	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)

	src.Deliver("tasks", rec("A"))
	src.Deliver("tasks")
	assert.Empty(t, s.Collection("tasks"))
	assert.True(t, s.Has("tasks"))
	assert.Len(t, arrivals.names, 2)
}

func TestStore_DuplicateIDsWithinBatchLastWins(t *testing.T) {
	src := adapter.NewMemorySource()
	s, _, _ := newTestStore(src)
	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)

	first := models.Record{ID: "A", Fields: map[string]any{"title": "old"}}
	second := models.Record{ID: "A", Fields: map[string]any{"title": "new"}}
	src.Deliver("tasks", first, rec("B"), second)

	got := s.Collection("tasks")
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].String("title"))
}

func TestStore_ArrivalThenRenderPerBatch(t *testing.T) {
	src := adapter.NewMemorySource()
	var order []string
	s := NewStore(src, eventloop.Inline{}, orderedArrivals{&order}, &spyRenders{order: &order}, logger.Nop())

	_, err := s.Subscribe(context.Background(), "sprints", models.Query{Collection: "sprints"})
	require.NoError(t, err)
	src.Deliver("sprints", rec("s1"))
	src.Deliver("sprints", rec("s1"), rec("s2"))

	assert.Equal(t, []string{"arrival:sprints", "render", "arrival:sprints", "render"}, order)
}

func TestStore_DeliveryErrorKeepsLastKnownGood(t *testing.T) {
	src := adapter.NewMemorySource()
	s, arrivals, renders := newTestStore(src)

	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)
	_, err = s.Subscribe(context.Background(), "epics", models.Query{Collection: "epics"})
	require.NoError(t, err)

	src.Deliver("tasks", rec("A"), rec("B"))
	src.Deliver("epics", rec("E"))

	boom := errors.New("stream reset")
	src.Fail("tasks", boom)

	assert.Equal(t, []string{"A", "B"}, recordIDs(s.Collection("tasks")))
	assert.ErrorIs(t, s.Err("tasks"), boom)
	assert.NoError(t, s.Err("epics"))
	assert.Equal(t, []string{"E"}, recordIDs(s.Collection("epics")))
	assert.Len(t, arrivals.names, 2, "errors are not arrivals")
	assert.Equal(t, 2, renders.calls)

	src.Deliver("tasks", rec("C"))
	assert.NoError(t, s.Err("tasks"))
}

func TestStore_UnsubscribeAllIdempotent(t *testing.T) {
	src := adapter.NewMemorySource()
	s, _, _ := newTestStore(src)

	for _, name := range []string{"sprints", "tasks", "epics"} {
		_, err := s.Subscribe(context.Background(), name, models.Query{Collection: name})
		require.NoError(t, err)
	}
	require.Equal(t, 3, src.Live())

	s.UnsubscribeAll()
	s.UnsubscribeAll()

	assert.Equal(t, 3, src.CancelCalls(), "each handle invoked exactly once")
	assert.Zero(t, src.Live())
	assert.True(t, s.Closed())

	_, err := s.Subscribe(context.Background(), "members", models.Query{Collection: "members"})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_UnsubscribeAllWithoutSubscriptions(t *testing.T) {
	s, _, _ := newTestStore(adapter.NewMemorySource())
	assert.NotPanics(t, func() {
		s.UnsubscribeAll()
		s.UnsubscribeAll()
	})
}

func TestStore_LateDeliveryIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock.NewMockCollectionSource(ctrl)

	var onBatch func([]models.Record)
	var onError func(error)
	cancels := 0
	src.EXPECT().
		SubscribeCollection(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Query, b func([]models.Record), e func(error)) (adapter.CancelFunc, error) {
			onBatch, onError = b, e
			return func() { cancels++ }, nil
		})

	s, arrivals, renders := newTestStore(src)
	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)

	onBatch([]models.Record{rec("A")})
	s.UnsubscribeAll()
	s.UnsubscribeAll()

	// a source that has not honoured the cancel yet keeps delivering
	assert.NotPanics(t, func() {
		onBatch([]models.Record{rec("B")})
		onError(errors.New("late"))
	})
	assert.Equal(t, []string{"A"}, recordIDs(s.Collection("tasks")))
	assert.Len(t, arrivals.names, 1)
	assert.Equal(t, 1, renders.calls)
	assert.Equal(t, 1, cancels)
}

func TestStore_SubscribeFailure(t *testing.T) {
	src := adapter.NewMemorySource()
	boom := errors.New("permission denied")
	src.FailSubscribe("tasks", boom)
	s, _, _ := newTestStore(src)

	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Names())

	_, err = s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	assert.NoError(t, err, "the name is free again")
}

func TestStore_DuplicateName(t *testing.T) {
	s, _, _ := newTestStore(adapter.NewMemorySource())

	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)
	_, err = s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
}

func TestStore_SubscribeDocument(t *testing.T) {
	src := adapter.NewMemorySource()
	src.Seed("sprints", models.Record{ID: "s1", Fields: map[string]any{"name": "Sprint 1"}})
	s, _, _ := newTestStore(src)

	sub, err := s.SubscribeDocument(context.Background(), "active-sprint", "sprints/s1")
	require.NoError(t, err)
	assert.Equal(t, "active-sprint", sub.Name())
	assert.Equal(t, 1, sub.Batches())

	doc, ok := s.Document("active-sprint")
	require.True(t, ok)
	assert.Equal(t, "Sprint 1", doc.String("name"))

	require.NoError(t, src.Delete(context.Background(), "sprints/s1"))
	_, ok = s.Document("active-sprint")
	assert.False(t, ok)
	assert.True(t, s.Has("active-sprint"))
}

func TestStore_CollectionReturnsCopy(t *testing.T) {
	src := adapter.NewMemorySource()
	s, _, _ := newTestStore(src)
	_, err := s.Subscribe(context.Background(), "tasks", models.Query{Collection: "tasks"})
	require.NoError(t, err)
	src.Deliver("tasks", rec("A"))

	got := s.Collection("tasks")
	got[0].ID = "mutated"
	assert.Equal(t, "A", s.Collection("tasks")[0].ID)
}

// TestStore_ThreeGatingCollections runs the whole data path: two of three
// gating collections arrive and five renders are requested, nothing paints;
// the third arrival opens the gate and exactly one render runs next frame.
func TestStore_ThreeGatingCollections(t *testing.T) {
	src := adapter.NewMemorySource()
	clock := render.NewManualClock()
	gate := readiness.NewGate("c1", "c2", "c3")
	renders := 0
	scheduler := render.NewScheduler(clock, gate, func() { renders++ }, logger.Nop())
	gate.OnReady(scheduler.RequestRender)

	s := NewStore(src, eventloop.Inline{}, gate, scheduler, logger.Nop())
	for _, name := range []string{"c1", "c2", "c3"} {
		_, err := s.Subscribe(context.Background(), name, models.Query{Collection: name})
		require.NoError(t, err)
	}

	src.Deliver("c1", rec("a"))
	src.Deliver("c2", rec("b"))
	for i := 0; i < 5; i++ {
		scheduler.RequestRender()
	}
	clock.Tick()
	assert.False(t, gate.Ready())
	assert.Zero(t, renders)

	src.Deliver("c3", rec("c"))
	assert.True(t, gate.Ready())
	clock.Tick()
	assert.Equal(t, 1, renders)

	clock.Tick()
	assert.Equal(t, 1, renders)
}
