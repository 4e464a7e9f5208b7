package common

import (
	"context"

	"convert-files-go/pkg/logger"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	storage Pinger
	log     logger.Logger
}

func New(storage Pinger, log logger.Logger) *Handlers {
	return &Handlers{
		storage: storage,
		log:     log.With("component", "health"),
	}
}
