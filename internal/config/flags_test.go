package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-a", "localhost:8090",
		"-config", "cfg.json",
		"-project", "proj",
		"-database", "db",
		"-credentials", "key.json",
		"-workspace", "ws",
		"-gating", " sprints, tasks ,,epics",
		"-presence-url", "ws://localhost:8090/ws",
		"-calendar-url", "http://cal.local",
		"-calendar-rate", "4",
		"-request-timeout", "3s",
		"-frame-interval", "20ms",
		"-log-file", "client.log",
		"-email", "ana@example.com",
		"-demo",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8090", cfg.Server.HTTPAddress)
	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
	assert.Equal(t, "proj", cfg.Storage.Firestore.ProjectID)
	assert.Equal(t, "db", cfg.Storage.Firestore.DatabaseID)
	assert.Equal(t, "key.json", cfg.Storage.Firestore.CredentialsFile)
	assert.Equal(t, "ws", cfg.Storage.Collections.Workspace)
	assert.Equal(t, []string{"sprints", "tasks", "epics"}, cfg.Storage.Collections.Gating)
	assert.Equal(t, "ws://localhost:8090/ws", cfg.Adapter.PresenceURL)
	assert.Equal(t, "http://cal.local", cfg.Adapter.CalendarURL)
	assert.InDelta(t, 4.0, cfg.Adapter.CalendarRateLimit, 0.0001)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Render.FrameInterval)
	assert.Equal(t, "client.log", cfg.App.LogFile)
	assert.Equal(t, "ana@example.com", cfg.App.Email)
	assert.True(t, cfg.App.Demo)
}

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server.HTTPAddress)
	assert.Nil(t, cfg.Storage.Collections.Gating)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "host and port", input: "127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "localhost", input: "localhost:1", want: "localhost:1"},
		{name: "all interfaces", input: ":65535", want: ":65535"},
		{name: "no port", input: "127.0.0.1", wantErr: true},
		{name: "port zero", input: ":0", wantErr: true},
		{name: "port too large", input: ":65536", wantErr: true},
		{name: "non numeric port", input: ":http", wantErr: true},
		{name: "hostname", input: "example.com:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}
