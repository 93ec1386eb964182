package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/handler"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/internal/store"
)

func newTestHandlers(t *testing.T, cfg config.Server) *handler.Handlers {
	t.Helper()
	reg := prometheus.NewRegistry()
	services := service.NewServices(store.NewStorages(logger.Nop()), reg, logger.Nop())
	h, err := handler.NewHandlers(services, cfg, reg, logger.Nop())
	require.NoError(t, err)
	return h
}

func TestNewServer_RequiresHandlers(t *testing.T) {
	_, err := NewServer(nil, config.Server{HTTPAddress: ":0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(&handler.Handlers{}, config.Server{HTTPAddress: ":0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_RunStopsWhenContextIsDone(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}
	srv, err := NewServer(newTestHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunReportsListenErrors(t *testing.T) {
	cfg := config.Server{HTTPAddress: "256.0.0.1:99999"}
	srv, err := NewServer(newTestHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	assert.Error(t, srv.Run(context.Background()))
}

func TestNewHTTPServer_DefaultsReadHeaderTimeout(t *testing.T) {
	s := newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: ":0"}, nil, logger.Nop())
	assert.Equal(t, defaultReadHeaderTimeout, s.server.ReadHeaderTimeout)

	s = newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: ":0", RequestTimeout: time.Second}, nil, logger.Nop())
	assert.Equal(t, time.Second, s.server.ReadHeaderTimeout)
}
