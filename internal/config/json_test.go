package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"identity_api_key": "k", "email": "a@b.c", "demo": true},
		"storage": {
			"firestore": {"project_id": "p", "database_id": "d"},
			"collections": {"workspace": "ws", "gating": ["tasks"]}
		},
		"server": {"http_address": ":7000", "request_timeout": "2s"},
		"adapter": {"presence_url": "ws://x/ws", "calendar_rate_limit": 1.5, "request_timeout": 1000000},
		"render": {"frame_interval": "16ms"}
	}`), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.App.IdentityAPIKey)
	assert.Equal(t, "a@b.c", cfg.App.Email)
	assert.True(t, cfg.App.Demo)
	assert.Equal(t, "p", cfg.Storage.Firestore.ProjectID)
	assert.Equal(t, "d", cfg.Storage.Firestore.DatabaseID)
	assert.Equal(t, "ws", cfg.Storage.Collections.Workspace)
	assert.Equal(t, []string{"tasks"}, cfg.Storage.Collections.Gating)
	assert.Equal(t, ":7000", cfg.Server.HTTPAddress)
	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "ws://x/ws", cfg.Adapter.PresenceURL)
	assert.Equal(t, time.Millisecond, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 16*time.Millisecond, cfg.Render.FrameInterval)
}

func TestParseJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": `), 0o600))

	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	require.NoError(t, d.UnmarshalJSON([]byte(`5`)))
	assert.Equal(t, time.Duration(5), time.Duration(d))

	assert.Error(t, d.UnmarshalJSON([]byte(`"later"`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(16 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"16ms"`, string(b))
}
