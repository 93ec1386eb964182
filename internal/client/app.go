package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/internal/session"
	"github.com/sprintboard/sprintboard/internal/tui"
	"github.com/sprintboard/sprintboard/internal/utils"
	"github.com/sprintboard/sprintboard/internal/workers"
	"github.com/sprintboard/sprintboard/models"
)

const (
	calendarRefreshInterval = 5 * time.Minute
	teardownTimeout         = 5 * time.Second
)

var mirroredCollections = []string{models.CollectionSprints, models.CollectionTasks, models.CollectionEpics}

type App struct {
	cfg      *config.ClientConfig
	backend  *backend
	services *service.ClientServices
	tui      *tui.TUI
	logger   *logger.Logger
}

// NewApp connects the configured backend and assembles services and UI.
// Nothing is signed in or subscribed until Run.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	var (
		b   *backend
		err error
	)
	if cfg.App.Demo {
		log.Info().Msg("running in demo mode")
		b, err = newDemoBackend(ctx, time.Now(), log)
	} else {
		b, err = newRemoteBackend(ctx, cfg, log)
	}
	if err != nil {
		return nil, err
	}

	services := service.NewClientServices(b.store, b.identity, b.calendar, log)

	return &App{
		cfg:      cfg,
		backend:  b,
		services: services,
		tui:      tui.New(services, buildInfo, log),
		logger:   log,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	identity, err := a.signIn(ctx)
	if errors.Is(err, tui.ErrUserQuit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error signing in: %w", err)
	}
	a.logger.Info().Str("user_id", identity.UserID).Msg("signed in")
	a.services.CalendarService.Authorize(identity)

	presenceSource, err := a.backend.dialPresence(ctx, identity)
	if err != nil {
		return fmt.Errorf("error connecting presence: %w", err)
	}

	a.tui.Prepare(ctx)
	st := a.newSession(identity, presenceSource, func(st *session.State) {
		a.tui.Publish(tui.BuildFrame(st))
	})
	defer a.teardown(st)

	if err = st.Start(ctx); err != nil {
		return fmt.Errorf("error starting session: %w", err)
	}

	ws := a.newWorkers(st)
	ws.Start(ctx)
	defer ws.Stop()

	if err = a.tui.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("board error: %w", err)
	}
	return nil
}

func (a *App) signIn(ctx context.Context) (models.Identity, error) {
	email, password := a.cfg.App.Email, a.cfg.App.Password
	if a.cfg.App.Demo {
		email, password = DemoEmail, DemoPassword
	}

	if email != "" && password != "" {
		return a.services.AuthService.SignIn(ctx, email, password)
	}
	return a.tui.LoginFlow(ctx, email)
}

func (a *App) newSession(identity models.Identity, presenceSource adapter.PresenceSource, onRender func(*session.State)) *session.State {
	cfg := session.Config{
		Collections:   mirroredCollections,
		Gating:        a.cfg.Storage.Gating,
		PresenceKey:   utils.NewUUIDGenerator().Generate(),
		FrameInterval: a.cfg.Render.FrameInterval,
	}
	return session.New(cfg, a.backend.store, presenceSource, identity, onRender, a.logger.Component("session"))
}

func (a *App) newWorkers(st *session.State) *workers.Workers {
	ws := workers.NewWorkers(&calendarWorker{
		job:      a.services.CalendarJob,
		state:    st,
		interval: calendarRefreshInterval,
	})
	for _, w := range a.backend.workers {
		ws.Add(w)
	}
	return ws
}

func (a *App) teardown(st *session.State) {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	if err := st.Teardown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("session teardown finished with errors")
	}
}

func (a *App) close() {
	if err := a.backend.close(); err != nil {
		a.logger.Warn().Err(err).Msg("error closing backend")
	}
}
