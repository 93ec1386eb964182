package client

import (
	"context"
	"fmt"
	"time"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/internal/workers"
	"github.com/sprintboard/sprintboard/models"
)

// collectionStore is what a session reads from and the task service writes
// to. Both implementations serve the two roles from one connection.
type collectionStore interface {
	adapter.CollectionSource
	adapter.DocumentWriter
}

// backend bundles the capabilities the client runs against.
type backend struct {
	store    collectionStore
	identity adapter.IdentityProvider
	calendar adapter.CalendarAdapter

	// dialPresence connects to the presence backend as identity.
	dialPresence func(ctx context.Context, identity models.Identity) (adapter.PresenceSource, error)

	// workers run next to the session; the demo uses them for fake teammates.
	workers []workers.Worker

	close func() error
}

func newRemoteBackend(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*backend, error) {
	fsClient, err := adapter.NewFirestoreClient(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("error creating firestore client: %w", err)
	}

	return &backend{
		store:    adapter.NewFirestoreStore(fsClient, cfg.Storage.Workspace, utils.NewUUIDGenerator().Generate, log.Component("firestore")),
		identity: adapter.NewHTTPIdentityProvider(cfg.App, cfg.Adapter, log.Component("identity")),
		calendar: adapter.NewHTTPCalendarAdapter(cfg.Adapter, log.Component("calendar")),
		dialPresence: func(ctx context.Context, identity models.Identity) (adapter.PresenceSource, error) {
			ws, err := adapter.NewWebsocketPresence(cfg.Adapter.PresenceURL, cfg.Storage.Workspace, identity.IDToken, log.Component("presence_ws"))
			if err != nil {
				return nil, err
			}
			ws.Start(ctx)
			return ws, nil
		},
		close: fsClient.Close,
	}, nil
}

func newDemoBackend(ctx context.Context, now time.Time, log *logger.Logger) (*backend, error) {
	src := adapter.NewMemorySource()
	seedDemo(src, now)

	identity := adapter.NewMemoryIdentity(demoSignKey)
	identity.AddAccount(demoUserID, demoName, DemoEmail, DemoPassword)

	cal := adapter.NewMemoryCalendar()
	if err := seedDemoCalendar(ctx, cal, now); err != nil {
		return nil, err
	}

	presence := adapter.NewMemoryPresence()
	activity := newDemoActivity(src, presence, log.Component("demo"))

	return &backend{
		store:    src,
		identity: identity,
		calendar: cal,
		dialPresence: func(context.Context, models.Identity) (adapter.PresenceSource, error) {
			presence.SetConnected(true)
			activity.greet()
			return presence, nil
		},
		workers: []workers.Worker{activity},
		close:   func() error { return nil },
	}, nil
}
