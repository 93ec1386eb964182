package store

import (
	"github.com/sprintboard/sprintboard/internal/logger"
)

type Storages struct {
	PresenceStorage PresenceStorage
}

func NewStorages(logger *logger.Logger) *Storages {
	logger.Debug().Msg("creating storages")
	return &Storages{
		PresenceStorage: NewPresenceStorage(logger),
	}
}
