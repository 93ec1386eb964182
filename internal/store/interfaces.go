package store

import (
	"context"

	"github.com/sprintboard/sprintboard/models"
)

// PresenceStorage keeps the presence entries of every workspace.
type PresenceStorage interface {
	// Put writes entry at its key, stamps LastChanged and returns the full
	// feed of the workspace after the write.
	Put(ctx context.Context, workspace string, entry models.PresenceEntry) ([]models.PresenceEntry, error)

	// Feed returns every entry of the workspace ordered by key.
	Feed(ctx context.Context, workspace string) ([]models.PresenceEntry, error)

	// Workspaces returns how many workspaces hold at least one entry.
	Workspaces() int
}
