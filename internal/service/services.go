package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/store"
)

type Services struct {
	PresenceHub PresenceHub
}

func NewServices(storages *store.Storages, registerer prometheus.Registerer, logger *logger.Logger) *Services {
	return &Services{
		PresenceHub: NewPresenceHub(storages.PresenceStorage, registerer, logger),
	}
}
