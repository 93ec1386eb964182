package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/models"
)

const memoryTokenTTL = time.Hour

// MemoryIdentity is an [IdentityProvider] that signs its own tokens for a
// fixed set of accounts. Demo mode signs in with it.
type MemoryIdentity struct {
	mu       sync.Mutex
	accounts map[string]memoryAccount
	refresh  map[string]string
	seq      int
	signKey  string
}

type memoryAccount struct {
	userID, name, password string
}

// NewMemoryIdentity returns a provider with no accounts.
func NewMemoryIdentity(signKey string) *MemoryIdentity {
	return &MemoryIdentity{
		accounts: make(map[string]memoryAccount),
		refresh:  make(map[string]string),
		signKey:  signKey,
	}
}

// AddAccount registers an account that can sign in with email and password.
func (m *MemoryIdentity) AddAccount(userID, name, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[email] = memoryAccount{userID: userID, name: name, password: password}
}

// SignIn implements [IdentityProvider].
func (m *MemoryIdentity) SignIn(_ context.Context, email, password string) (models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[email]
	if !ok || acc.password != password {
		return models.Identity{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return m.issueLocked(email, acc)
}

// Refresh implements [IdentityProvider].
func (m *MemoryIdentity) Refresh(_ context.Context, refreshToken string) (models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.refresh[refreshToken]
	if !ok {
		return models.Identity{}, fmt.Errorf("%w: unknown refresh token", ErrUnauthorized)
	}
	delete(m.refresh, refreshToken)
	return m.issueLocked(email, m.accounts[email])
}

func (m *MemoryIdentity) issueLocked(email string, acc memoryAccount) (models.Identity, error) {
	idToken, err := utils.SignIdentityToken(acc.userID, acc.name, email, memoryTokenTTL, m.signKey)
	if err != nil {
		return models.Identity{}, err
	}
	m.seq++
	refreshToken := fmt.Sprintf("refresh-%s-%d", acc.userID, m.seq)
	m.refresh[refreshToken] = email

	return utils.IdentityFromTokens(idToken, refreshToken)
}

// MemoryCalendar is an in-memory [CalendarAdapter]. It accepts only the
// token most recently passed to Authorize, so tests can expire tokens.
type MemoryCalendar struct {
	mu     sync.Mutex
	events []models.CalendarEvent
	token  string
	valid  string
	seq    int
}

// NewMemoryCalendar returns an empty calendar that accepts any token until
// Authorize is called.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{}
}

// Authorize makes token the only accepted one.
func (m *MemoryCalendar) Authorize(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = token
}

// SetToken implements [CalendarAdapter].
func (m *MemoryCalendar) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryCalendar) checkLocked() error {
	if m.valid != "" && m.token != m.valid {
		return fmt.Errorf("%w: token rejected", ErrUnauthorized)
	}
	return nil
}

// ListEvents implements [CalendarAdapter].
func (m *MemoryCalendar) ListEvents(_ context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(); err != nil {
		return nil, err
	}

	var out []models.CalendarEvent
	for _, ev := range m.events {
		if ev.End.After(from) && ev.Start.Before(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CreateEvent implements [CalendarAdapter].
func (m *MemoryCalendar) CreateEvent(_ context.Context, ev models.CalendarEvent) (models.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(); err != nil {
		return models.CalendarEvent{}, err
	}
	m.seq++
	ev.ID = fmt.Sprintf("event-%d", m.seq)
	m.events = append(m.events, ev)
	return ev, nil
}
