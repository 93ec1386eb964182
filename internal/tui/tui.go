package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/models"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo

	program *tea.Program
	// frames holds the latest frame not yet handed to the program.
	frames chan Frame
	logger *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		services:  services,
		buildInfo: buildInfo,
		frames:    make(chan Frame, 1),
		logger:    logger,
	}
}

// LoginFlow runs the sign-in screen until the user signs in or quits.
func (t *TUI) LoginFlow(ctx context.Context, email string) (models.Identity, error) {
	finalModel, err := tea.NewProgram(NewLoginModel(ctx, t.services.AuthService, email), tea.WithAltScreen()).Run()
	if err != nil {
		return models.Identity{}, err
	}

	result, ok := finalModel.(*LoginModel)
	if !ok {
		return models.Identity{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Identity{}, ErrUserQuit
	}
	return result.result.Identity, nil
}

// Prepare creates the board program. It must be called before Publish and
// Run.
func (t *TUI) Prepare(ctx context.Context) {
	model := newBoardModel(ctx, t.services.TaskService, t.services.CalendarService, t.buildInfo)
	t.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Publish hands a frame to the board. It is the session's render hook and
// never blocks: a frame the board has not picked up yet is replaced by f.
// Publish must be called from a single goroutine.
func (t *TUI) Publish(f Frame) {
	select {
	case <-t.frames:
	default:
	}
	t.frames <- f
}

// Run shows the board until the user quits or ctx is done.
func (t *TUI) Run() error {
	if t.program == nil {
		return nil
	}

	done := make(chan struct{})
	go t.forwardFrames(done)

	_, err := t.program.Run()
	close(done)
	t.logger.Debug().Err(err).Msg("board closed")
	return err
}

// forwardFrames feeds published frames to the program until done is closed.
func (t *TUI) forwardFrames(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case f := <-t.frames:
			// returns once the program has stopped
			t.program.Send(FrameMsg{Frame: f})
		}
	}
}
