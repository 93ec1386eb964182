package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sprintboard/sprintboard/models"
)

type presenceFeedListener struct {
	onFeed  func([]models.PresenceEntry)
	onError func(error)
}

// MemoryPresence is an in-memory [PresenceSource] that behaves like the
// presence backend: it stamps LastChanged on every write, broadcasts the full
// feed after each change and runs registered disconnect actions when Drop is
// called. Callbacks run on the caller's goroutine.
type MemoryPresence struct {
	mu        sync.Mutex
	entries   map[string]models.PresenceEntry
	actions   map[string]models.PresenceEntry
	connected bool
	closed    bool

	connListeners map[int]func(bool)
	feedListeners map[int]presenceFeedListener
	seq           int

	calls       []string
	registerErr error
	setErr      error

	now func() time.Time
}

// NewMemoryPresence returns a disconnected presence source.
func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{
		entries:       make(map[string]models.PresenceEntry),
		actions:       make(map[string]models.PresenceEntry),
		connListeners: make(map[int]func(bool)),
		feedListeners: make(map[int]presenceFeedListener),
		now:           time.Now,
	}
}

// SetConnected changes the transport state and notifies listeners.
func (m *MemoryPresence) SetConnected(connected bool) {
	m.mu.Lock()
	m.connected = connected
	listeners := m.connListenersLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(connected)
	}
}

// Drop simulates an abnormal transport loss: every registered disconnect
// action is applied once, then listeners see connected=false and a new feed.
func (m *MemoryPresence) Drop() {
	m.mu.Lock()
	now := m.now()
	for key, entry := range m.actions {
		entry.LastChanged = now
		m.entries[key] = entry
	}
	m.actions = make(map[string]models.PresenceEntry)
	m.connected = false
	listeners := m.connListenersLocked()
	feed, feedListeners := m.feedLocked()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(false)
	}
	m.broadcast(feed, feedListeners)
}

// Put writes an entry as another client would.
func (m *MemoryPresence) Put(entry models.PresenceEntry) {
	m.mu.Lock()
	if entry.LastChanged.IsZero() {
		entry.LastChanged = m.now()
	}
	m.entries[entry.Key] = entry
	feed, listeners := m.feedLocked()
	m.mu.Unlock()

	m.broadcast(feed, listeners)
}

// FailRegister makes RegisterDisconnectAction fail with err until called
// with nil.
func (m *MemoryPresence) FailRegister(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerErr = err
}

// FailSet makes Set fail with err until called with nil.
func (m *MemoryPresence) FailSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Calls returns the write requests received, as "register:<key>" and
// "set:<key>:<state>", in order.
func (m *MemoryPresence) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Entry returns the stored entry at key.
func (m *MemoryPresence) Entry(key string) (models.PresenceEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

// DisconnectAction returns the pending disconnect action at key.
func (m *MemoryPresence) DisconnectAction(key string) (models.PresenceEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.actions[key]
	return e, ok
}

// Closed reports whether Close was called.
func (m *MemoryPresence) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OnConnectionStateChange implements [PresenceSource].
func (m *MemoryPresence) OnConnectionStateChange(fn func(connected bool)) CancelFunc {
	m.mu.Lock()
	m.seq++
	id := m.seq
	m.connListeners[id] = fn
	connected := m.connected
	m.mu.Unlock()

	if connected {
		fn(true)
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.connListeners, id)
	}
}

// RegisterDisconnectAction implements [PresenceSource].
func (m *MemoryPresence) RegisterDisconnectAction(_ context.Context, key string, value models.PresenceEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrNotConnected
	}
	m.calls = append(m.calls, "register:"+key)
	if m.registerErr != nil {
		return m.registerErr
	}
	m.actions[key] = value
	return nil
}

// Set implements [PresenceSource].
func (m *MemoryPresence) Set(_ context.Context, key string, value models.PresenceEntry) error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return ErrNotConnected
	}
	m.calls = append(m.calls, "set:"+key+":"+string(value.State))
	if m.setErr != nil {
		err := m.setErr
		m.mu.Unlock()
		return err
	}
	value.Key = key
	value.LastChanged = m.now()
	m.entries[key] = value
	feed, listeners := m.feedLocked()
	m.mu.Unlock()

	m.broadcast(feed, listeners)
	return nil
}

// Listen implements [PresenceSource]. The current feed is delivered
// immediately when it is not empty.
func (m *MemoryPresence) Listen(onFeed func([]models.PresenceEntry), onError func(error)) CancelFunc {
	m.mu.Lock()
	m.seq++
	id := m.seq
	m.feedListeners[id] = presenceFeedListener{onFeed: onFeed, onError: onError}
	feed, _ := m.feedLocked()
	m.mu.Unlock()

	if len(feed) > 0 {
		onFeed(feed)
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.feedListeners, id)
	}
}

// Close implements [PresenceSource]. Pending disconnect actions run as they
// would when the backend sees the socket close.
func (m *MemoryPresence) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.Drop()
	return nil
}

func (m *MemoryPresence) connListenersLocked() []func(bool) {
	ids := make([]int, 0, len(m.connListeners))
	for id := range m.connListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		out = append(out, m.connListeners[id])
	}
	return out
}

func (m *MemoryPresence) feedLocked() ([]models.PresenceEntry, []presenceFeedListener) {
	feed := make([]models.PresenceEntry, 0, len(m.entries))
	for _, e := range m.entries {
		feed = append(feed, e)
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Key < feed[j].Key })

	ids := make([]int, 0, len(m.feedListeners))
	for id := range m.feedListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]presenceFeedListener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, m.feedListeners[id])
	}
	return feed, listeners
}

func (m *MemoryPresence) broadcast(feed []models.PresenceEntry, listeners []presenceFeedListener) {
	for _, l := range listeners {
		l.onFeed(append([]models.PresenceEntry(nil), feed...))
	}
}
