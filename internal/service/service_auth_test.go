package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/mock"
	"github.com/sprintboard/sprintboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAuthSvc(t *testing.T) (AuthService, *mock.MockIdentityProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	idp := mock.NewMockIdentityProvider(ctrl)
	return NewAuthService(idp, logger.Nop()), idp
}

func TestAuthService_SignIn(t *testing.T) {
	svc, idp := newTestAuthSvc(t)
	want := models.Identity{UserID: "u-1", Name: "Ann", IDToken: "tok", RefreshToken: "ref"}

	idp.EXPECT().SignIn(gomock.Any(), "ann@example.com", "pw").Return(want, nil)

	got, err := svc.SignIn(context.Background(), " ann@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	current, ok := svc.Identity()
	assert.True(t, ok)
	assert.Equal(t, want, current)
}

func TestAuthService_SignIn_EmptyCredentials(t *testing.T) {
	svc, _ := newTestAuthSvc(t)

	_, err := svc.SignIn(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
	_, err = svc.SignIn(context.Background(), "ann@example.com", "")
	assert.ErrorIs(t, err, ErrEmptyCredentials)

	_, ok := svc.Identity()
	assert.False(t, ok)
}

func TestAuthService_SignIn_Rejected(t *testing.T) {
	svc, idp := newTestAuthSvc(t)

	idp.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Identity{}, adapter.ErrUnauthorized)

	_, err := svc.SignIn(context.Background(), "ann@example.com", "nope")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_SignIn_TransportError(t *testing.T) {
	svc, idp := newTestAuthSvc(t)
	boom := errors.New("dial tcp: connection refused")

	idp.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Identity{}, boom)

	_, err := svc.SignIn(context.Background(), "ann@example.com", "pw")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Reauthorize(t *testing.T) {
	svc, idp := newTestAuthSvc(t)

	gomock.InOrder(
		idp.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Identity{UserID: "u-1", RefreshToken: "ref-1"}, nil),
		idp.EXPECT().Refresh(gomock.Any(), "ref-1").Return(models.Identity{UserID: "u-1", IDToken: "tok-2", RefreshToken: "ref-2"}, nil),
		idp.EXPECT().Refresh(gomock.Any(), "ref-2").Return(models.Identity{UserID: "u-1", IDToken: "tok-3", RefreshToken: "ref-3"}, nil),
	)

	_, err := svc.SignIn(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)

	identity, err := svc.Reauthorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", identity.IDToken)

	identity, err = svc.Reauthorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-3", identity.IDToken)
}

func TestAuthService_Reauthorize_NotSignedIn(t *testing.T) {
	svc, _ := newTestAuthSvc(t)

	_, err := svc.Reauthorize(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
