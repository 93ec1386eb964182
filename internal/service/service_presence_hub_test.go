package service

import (
	"context"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/store"
	"github.com/sprintboard/sprintboard/models"
)

type recordedFrames struct {
	mu     sync.Mutex
	frames []models.PresenceMessage
	full   bool
}

func (r *recordedFrames) send(msg models.PresenceMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return false
	}
	r.frames = append(r.frames, msg)
	return true
}

func (r *recordedFrames) lastFeed(t *testing.T) []models.PresenceEntry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].Type == models.PresenceMsgFeed {
			return r.frames[i].Entries
		}
	}
	t.Fatal("no feed frame received")
	return nil
}

func claimsFor(userID string) models.IdentityClaims {
	return models.IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
}

func newTestHub(t *testing.T) (*presenceHub, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	hub := NewPresenceHub(store.NewPresenceStorage(logger.Nop()), reg, logger.Nop()).(*presenceHub)
	return hub, reg
}

func TestPresenceHub_JoinSendsConnectedThenFeed(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var frames recordedFrames
	id, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), frames.send)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, frames.frames, 2)
	assert.Equal(t, models.PresenceMsgConnected, frames.frames[0].Type)
	assert.Equal(t, id, frames.frames[0].Session)
	assert.Equal(t, models.PresenceMsgFeed, frames.frames[1].Type)
	assert.Equal(t, 1, hub.Sessions("ws-1"))
	assert.Equal(t, float64(1), testutil.ToFloat64(hub.metrics.sessions.WithLabelValues("ws-1")))
}

func TestPresenceHub_JoinRequiresWorkspace(t *testing.T) {
	hub, _ := newTestHub(t)
	var frames recordedFrames

	_, err := hub.Join(context.Background(), "", claimsFor("u-1"), frames.send)
	assert.ErrorIs(t, err, ErrEmptyWorkspaceName)
	assert.Empty(t, frames.frames)
}

func TestPresenceHub_SetBroadcastsWithinWorkspace(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var a, b, other recordedFrames
	idA, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), a.send)
	require.NoError(t, err)
	_, err = hub.Join(ctx, "ws-1", claimsFor("u-2"), b.send)
	require.NoError(t, err)
	_, err = hub.Join(ctx, "ws-2", claimsFor("u-3"), other.send)
	require.NoError(t, err)

	entry := models.PresenceEntry{UserID: "u-1", Name: "Ana", State: models.PresenceOnline}
	require.NoError(t, hub.Set(ctx, idA, "k-1", entry))

	feed := b.lastFeed(t)
	require.Len(t, feed, 1)
	assert.Equal(t, "k-1", feed[0].Key)
	assert.False(t, feed[0].LastChanged.IsZero())
	assert.Len(t, a.lastFeed(t), 1)
	assert.Empty(t, other.lastFeed(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(hub.metrics.writes.WithLabelValues("online", "set")))
}

func TestPresenceHub_RejectsForeignEntries(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var frames recordedFrames
	id, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), frames.send)
	require.NoError(t, err)

	foreign := models.PresenceEntry{UserID: "u-2", State: models.PresenceOnline}
	assert.ErrorIs(t, hub.Set(ctx, id, "k-1", foreign), ErrForeignPresence)
	assert.ErrorIs(t, hub.RegisterDisconnect(ctx, id, "k-1", foreign), ErrForeignPresence)

	own := models.PresenceEntry{UserID: "u-1"}
	assert.ErrorIs(t, hub.Set(ctx, id, "", own), ErrEmptyPresenceKey)
	assert.ErrorIs(t, hub.Set(ctx, "nope", "k-1", own), ErrUnknownSession)

	assert.True(t, IsPresenceRequestError(ErrForeignPresence))
	assert.False(t, IsPresenceRequestError(assert.AnError))
}

func TestPresenceHub_LeaveAppliesDisconnectActionsOnce(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var leaving, watcher recordedFrames
	id, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), leaving.send)
	require.NoError(t, err)
	_, err = hub.Join(ctx, "ws-1", claimsFor("u-2"), watcher.send)
	require.NoError(t, err)

	require.NoError(t, hub.RegisterDisconnect(ctx, id, "k-1", models.PresenceEntry{UserID: "u-1", State: models.PresenceOffline}))
	require.NoError(t, hub.Set(ctx, id, "k-1", models.PresenceEntry{UserID: "u-1", State: models.PresenceOnline}))

	assert.Equal(t, 1, hub.Leave(ctx, id))
	assert.Equal(t, 0, hub.Leave(ctx, id))

	feed := watcher.lastFeed(t)
	require.Len(t, feed, 1)
	assert.Equal(t, models.PresenceOffline, feed[0].State)
	assert.Equal(t, 1, hub.Sessions("ws-1"))
	assert.Equal(t, float64(1), testutil.ToFloat64(hub.metrics.disconnects))
}

func TestPresenceHub_LeaveSkipsKeysClaimedByNewerSession(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var oldConn, newConn recordedFrames
	oldID, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), oldConn.send)
	require.NoError(t, err)
	require.NoError(t, hub.RegisterDisconnect(ctx, oldID, "k-1", models.PresenceEntry{UserID: "u-1", State: models.PresenceOffline}))

	newID, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), newConn.send)
	require.NoError(t, err)
	require.NoError(t, hub.RegisterDisconnect(ctx, newID, "k-1", models.PresenceEntry{UserID: "u-1", State: models.PresenceOffline}))
	require.NoError(t, hub.Set(ctx, newID, "k-1", models.PresenceEntry{UserID: "u-1", State: models.PresenceOnline}))

	assert.Equal(t, 0, hub.Leave(ctx, oldID))

	feed := newConn.lastFeed(t)
	require.Len(t, feed, 1)
	assert.Equal(t, models.PresenceOnline, feed[0].State)
}

func TestPresenceHub_KeyBelongsToFirstUser(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var ana, bo recordedFrames
	anaID, err := hub.Join(ctx, "ws-1", claimsFor("u-a"), ana.send)
	require.NoError(t, err)
	boID, err := hub.Join(ctx, "ws-1", claimsFor("u-b"), bo.send)
	require.NoError(t, err)

	require.NoError(t, hub.RegisterDisconnect(ctx, anaID, "key-a", models.PresenceEntry{UserID: "u-a", State: models.PresenceOffline}))
	require.NoError(t, hub.Set(ctx, anaID, "key-a", models.PresenceEntry{UserID: "u-a", State: models.PresenceOnline}))

	// another user cannot take over the key, not even with entries of their own
	assert.ErrorIs(t, hub.RegisterDisconnect(ctx, boID, "key-a", models.PresenceEntry{UserID: "u-b", State: models.PresenceOffline}), ErrForeignPresence)
	assert.ErrorIs(t, hub.Set(ctx, boID, "key-a", models.PresenceEntry{UserID: "u-b", State: models.PresenceOnline}), ErrForeignPresence)

	// the owner's cleanup still runs
	assert.Equal(t, 1, hub.Leave(ctx, anaID))

	feed := bo.lastFeed(t)
	require.Len(t, feed, 1)
	assert.Equal(t, "key-a", feed[0].Key)
	assert.Equal(t, "u-a", feed[0].UserID)
	assert.Equal(t, models.PresenceOffline, feed[0].State)
}

func TestPresenceHub_OtherUsersActionsDoNotClaimKey(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var ana, bo recordedFrames
	anaID, err := hub.Join(ctx, "ws-1", claimsFor("u-a"), ana.send)
	require.NoError(t, err)
	boID, err := hub.Join(ctx, "ws-1", claimsFor("u-b"), bo.send)
	require.NoError(t, err)

	// same key names in the workspace, different users
	require.NoError(t, hub.RegisterDisconnect(ctx, boID, "key-b", models.PresenceEntry{UserID: "u-b", State: models.PresenceOffline}))
	require.NoError(t, hub.RegisterDisconnect(ctx, anaID, "key-a", models.PresenceEntry{UserID: "u-a", State: models.PresenceOffline}))

	assert.True(t, hub.claimed("ws-1", "u-b", "key-b"))
	assert.False(t, hub.claimed("ws-1", "u-a", "key-b"))
	assert.Equal(t, 1, hub.Leave(ctx, anaID))
}

func TestPresenceHub_DroppedFramesAreCounted(t *testing.T) {
	hub, _ := newTestHub(t)
	ctx := context.Background()

	var slow recordedFrames
	slow.full = true
	_, err := hub.Join(ctx, "ws-1", claimsFor("u-1"), slow.send)
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(hub.metrics.droppedFeeds))
}

func TestPresenceHub_MetricsRegistered(t *testing.T) {
	_, reg := newTestHub(t)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "presence_disconnect_actions_total")
	assert.Contains(t, names, "presence_dropped_frames_total")
}
