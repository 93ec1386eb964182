package config

import (
	"fmt"
	"time"

	"github.com/sprintboard/sprintboard/models"
)

const (
	defaultFrameInterval  = 16 * time.Millisecond
	defaultRequestTimeout = 15 * time.Second
	defaultServerAddress  = ":8090"
)

// DefaultGating is used when no gating collections are configured.
var DefaultGating = []string{models.CollectionSprints, models.CollectionTasks, models.CollectionEpics}

// ClientApp holds identity and runtime settings of the client.
type ClientApp struct {
	IdentityAPIKey string
	IdentityURL    string
	TokenURL       string
	Email          string
	Password       string
	LogFile        string
	Demo           bool
	Version        string
}

// ClientStorage holds the remote store settings of the client.
type ClientStorage struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
	Workspace       string
	Gating          []string
}

// ClientAdapter holds external collaborator endpoints.
type ClientAdapter struct {
	PresenceURL       string
	CalendarURL       string
	CalendarRateLimit float64
	RequestTimeout    time.Duration
}

// ClientRender holds render scheduling settings.
type ClientRender struct {
	FrameInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Storage ClientStorage
	Adapter ClientAdapter
	Render  ClientRender
}

// GetClientConfig builds and validates the client configuration from the
// environment and args.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			IdentityAPIKey: cfg.App.IdentityAPIKey,
			IdentityURL:    cfg.App.IdentityURL,
			TokenURL:       cfg.App.TokenURL,
			Email:          cfg.App.Email,
			Password:       cfg.App.Password,
			LogFile:        cfg.App.LogFile,
			Demo:           cfg.App.Demo,
			Version:        cfg.App.Version,
		},
		Storage: ClientStorage{
			ProjectID:       cfg.Storage.Firestore.ProjectID,
			DatabaseID:      cfg.Storage.Firestore.DatabaseID,
			CredentialsFile: cfg.Storage.Firestore.CredentialsFile,
			Workspace:       cfg.Storage.Collections.Workspace,
			Gating:          cfg.Storage.Collections.Gating,
		},
		Adapter: ClientAdapter{
			PresenceURL:       cfg.Adapter.PresenceURL,
			CalendarURL:       cfg.Adapter.CalendarURL,
			CalendarRateLimit: cfg.Adapter.CalendarRateLimit,
			RequestTimeout:    cfg.Adapter.RequestTimeout,
		},
		Render: ClientRender{
			FrameInterval: cfg.Render.FrameInterval,
		},
	}

	if len(clientCfg.Storage.Gating) == 0 {
		clientCfg.Storage.Gating = append([]string(nil), DefaultGating...)
	}
	if clientCfg.Render.FrameInterval <= 0 {
		clientCfg.Render.FrameInterval = defaultFrameInterval
	}
	if clientCfg.Adapter.RequestTimeout <= 0 {
		clientCfg.Adapter.RequestTimeout = defaultRequestTimeout
	}

	return clientCfg
}

// ServerConfig is the presence backend configuration.
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	TokenKey       string
}

// GetServerConfig builds and validates the presence backend configuration.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		TokenKey:       cfg.Server.TokenKey,
	}
	if serverCfg.HTTPAddress == "" {
		serverCfg.HTTPAddress = defaultServerAddress
	}
	if serverCfg.RequestTimeout <= 0 {
		serverCfg.RequestTimeout = defaultRequestTimeout
	}

	return serverCfg, nil
}
