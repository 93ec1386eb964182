package adapter

import (
	"context"
	"fmt"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/models"
)

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
}

type httpIdentityProvider struct {
	signIn  *utils.HTTPClient
	refresh *utils.HTTPClient
	apiKey  string

	logger *logger.Logger
}

// NewHTTPIdentityProvider returns an [IdentityProvider] for a token service
// with a password sign-in endpoint under appCfg.IdentityURL and a token
// refresh endpoint under appCfg.TokenURL.
func NewHTTPIdentityProvider(appCfg config.ClientApp, adapterCfg config.ClientAdapter, log *logger.Logger) IdentityProvider {
	return &httpIdentityProvider{
		signIn:  utils.NewHTTPClient(appCfg.IdentityURL, adapterCfg.RequestTimeout),
		refresh: utils.NewHTTPClient(appCfg.TokenURL, adapterCfg.RequestTimeout),
		apiKey:  appCfg.IdentityAPIKey,
		logger:  log,
	}
}

// SignIn implements [IdentityProvider]. It POSTs the credentials to
// /v1/accounts:signInWithPassword and decodes the returned id token.
func (p *httpIdentityProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	var body signInResponse
	resp, err := p.signIn.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(signInRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&body).
		Post("/v1/accounts:signInWithPassword")
	if err != nil {
		return models.Identity{}, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	identity, err := utils.IdentityFromTokens(body.IDToken, body.RefreshToken)
	if err != nil {
		return models.Identity{}, fmt.Errorf("sign in decode id token: %w", err)
	}

	p.logger.Debug().Str("user_id", identity.UserID).Msg("signed in")
	return identity, nil
}

// Refresh implements [IdentityProvider]. It exchanges refreshToken at
// /v1/token using the refresh_token grant.
func (p *httpIdentityProvider) Refresh(ctx context.Context, refreshToken string) (models.Identity, error) {
	var body refreshResponse
	resp, err := p.refresh.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
		}).
		SetResult(&body).
		Post("/v1/token")
	if err != nil {
		return models.Identity{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	if body.RefreshToken == "" {
		body.RefreshToken = refreshToken
	}
	identity, err := utils.IdentityFromTokens(body.IDToken, body.RefreshToken)
	if err != nil {
		return models.Identity{}, fmt.Errorf("refresh decode id token: %w", err)
	}

	return identity, nil
}
