package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

type authService struct {
	provider adapter.IdentityProvider

	mu       sync.Mutex
	identity models.Identity
	signedIn bool

	logger *logger.Logger
}

func NewAuthService(provider adapter.IdentityProvider, logger *logger.Logger) AuthService {
	return &authService{provider: provider, logger: logger}
}

func (a *authService) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Identity{}, ErrEmptyCredentials
	}

	identity, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) || errors.Is(err, adapter.ErrBadRequest) {
			return models.Identity{}, fmt.Errorf("%w: %v", ErrWrongPassword, err)
		}
		return models.Identity{}, fmt.Errorf("error signing in: %w", err)
	}

	a.mu.Lock()
	a.identity = identity
	a.signedIn = true
	a.mu.Unlock()

	a.logger.Info().Str("user_id", identity.UserID).Msg("signed in")
	return identity, nil
}

// Reauthorize holds the lock across the refresh call: refresh tokens are
// single-use, so concurrent callers must not race with the same token.
func (a *authService) Reauthorize(ctx context.Context) (models.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.signedIn {
		return models.Identity{}, ErrNotSignedIn
	}

	identity, err := a.provider.Refresh(ctx, a.identity.RefreshToken)
	if err != nil {
		return models.Identity{}, fmt.Errorf("error refreshing identity token: %w", err)
	}
	a.identity = identity

	a.logger.Debug().Str("user_id", identity.UserID).Time("expires_at", identity.ExpiresAt).Msg("identity token refreshed")
	return identity, nil
}

func (a *authService) Identity() (models.Identity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity, a.signedIn
}
