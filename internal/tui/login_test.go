package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/models"
)

type fakeAuth struct {
	email, password string
	err             error
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (models.Identity, error) {
	f.email, f.password = email, password
	if f.err != nil {
		return models.Identity{}, f.err
	}
	return models.Identity{UserID: "u-1", Email: email}, nil
}

func (f *fakeAuth) Reauthorize(context.Context) (models.Identity, error) {
	return models.Identity{}, nil
}

func (f *fakeAuth) Identity() (models.Identity, bool) { return models.Identity{}, false }

func typeInto(m *LoginModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestLoginModel_SubmitsCredentials(t *testing.T) {
	auth := &fakeAuth{}
	m := NewLoginModel(context.Background(), auth, "ana@example.com")
	assert.Equal(t, 1, m.focus, "password gets focus when email is pre-filled")

	typeInto(m, "pw")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	_, cmd = m.Update(cmd())
	assert.Equal(t, "ana@example.com", auth.email)
	assert.Equal(t, "pw", auth.password)
	assert.Equal(t, "u-1", m.result.Identity.UserID)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLoginModel_RequiresBothFields(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{}, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required", m.errMsg)
}

func TestLoginModel_ShowsSignInErrors(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{err: service.ErrWrongPassword}, "ana@example.com")
	typeInto(m, "bad")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = m.Update(cmd())

	assert.Nil(t, cmd)
	assert.False(t, m.submitting)
	assert.Contains(t, m.View(), service.ErrWrongPassword.Error())
}

func TestLoginModel_EscQuits(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeAuth{}, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.quitByUser)
	require.NotNil(t, cmd)
}
