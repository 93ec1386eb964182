package http

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/service"
)

type Handler struct {
	services *service.Services
	tokenKey string

	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	// quit is closed by Close to end every open presence session.
	quit      chan struct{}
	closeOnce sync.Once

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	if cfg.TokenKey == "" {
		logger.Warn().Msg("no token key configured, identity tokens are not verified")
	}
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		tokenKey: cfg.TokenKey,
		gatherer: gatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// terminal clients send no Origin header
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		quit:   make(chan struct{}),
		logger: logger,
	}
}

// Close ends every open presence session; their disconnect actions run as
// for any other dropped connection. New sessions are refused afterwards.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
