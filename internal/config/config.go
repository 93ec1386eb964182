// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging environment variables, command-line flags and an optional JSON
// file, then projected into [ClientConfig] or [ServerConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and client runtime settings.
	App App `envPrefix:"APP_"`

	// Storage holds the remote document store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the presence backend listen settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds endpoints of the external collaborators the client talks to.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Render holds render scheduling settings.
	Render Render `envPrefix:"RENDER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds identity provider and client runtime settings.
type App struct {
	// IdentityAPIKey is the public API key of the identity provider.
	// Env: APP_IDENTITY_API_KEY
	IdentityAPIKey string `env:"IDENTITY_API_KEY"`

	// IdentityURL is the base URL of the password sign-in endpoint.
	// Env: APP_IDENTITY_URL
	IdentityURL string `env:"IDENTITY_URL"`

	// TokenURL is the base URL of the token refresh endpoint.
	// Env: APP_TOKEN_URL
	TokenURL string `env:"TOKEN_URL"`

	// Email and Password are used for non-interactive sign-in.
	// Env: APP_EMAIL, APP_PASSWORD
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`

	// LogFile is where the client writes its logs.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// Demo runs the client against in-memory collaborators with seeded data.
	// Env: APP_DEMO
	Demo bool `env:"DEMO"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the remote store settings.
type Storage struct {
	// Firestore holds the document store connection settings.
	Firestore Firestore `envPrefix:"FIRESTORE_"`

	// Collections holds which collections are mirrored and which gate first paint.
	Collections Collections `envPrefix:"COLLECTIONS_"`
}

// Firestore holds the Cloud Firestore connection settings.
type Firestore struct {
	// ProjectID is the Google Cloud project.
	// Env: STORAGE_FIRESTORE_PROJECT_ID
	ProjectID string `env:"PROJECT_ID"`

	// DatabaseID selects a named database; empty means "(default)".
	// Env: STORAGE_FIRESTORE_DATABASE_ID
	DatabaseID string `env:"DATABASE_ID"`

	// CredentialsFile is an optional service account key file.
	// Env: STORAGE_FIRESTORE_CREDENTIALS_FILE
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// Collections lists mirrored collections.
type Collections struct {
	// Workspace scopes every query to one project workspace.
	// Env: STORAGE_COLLECTIONS_WORKSPACE
	Workspace string `env:"WORKSPACE"`

	// Gating is the set of collections that must each deliver a first batch
	// before the UI is considered ready.
	// Env: STORAGE_COLLECTIONS_GATING (comma separated)
	Gating []string `env:"GATING" envSeparator:","`
}

// Server holds network settings of the presence backend.
type Server struct {
	// HTTPAddress is the TCP address the presence backend listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling of plain HTTP requests.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// TokenKey verifies HS256 id tokens. When empty, tokens are decoded
	// without signature verification (development only).
	// Env: SERVER_TOKEN_KEY
	TokenKey string `env:"TOKEN_KEY"`
}

// Adapter holds endpoints of external collaborators.
type Adapter struct {
	// PresenceURL is the websocket URL of the presence backend.
	// Env: ADAPTER_PRESENCE_URL
	PresenceURL string `env:"PRESENCE_URL"`

	// CalendarURL is the base URL of the calendar API.
	// Env: ADAPTER_CALENDAR_URL
	CalendarURL string `env:"CALENDAR_URL"`

	// CalendarRateLimit caps calendar calls per second.
	// Env: ADAPTER_CALENDAR_RATE_LIMIT
	CalendarRateLimit float64 `env:"CALENDAR_RATE_LIMIT"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Render holds render scheduling settings.
type Render struct {
	// FrameInterval is the length of one display frame.
	// Env: RENDER_FRAME_INTERVAL
	FrameInterval time.Duration `env:"FRAME_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources: environment, then args parsed as flags, then the JSON
// file named by either of them.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
