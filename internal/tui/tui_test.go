package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

func TestTUI_PublishBeforeRunDoesNotBlock(t *testing.T) {
	ui := New(nil, models.AppBuildInfo{}, logger.Nop())

	published := make(chan struct{})
	go func() {
		for i := 1; i <= 5; i++ {
			ui.Publish(Frame{Renders: uint64(i)})
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running board")
	}

	select {
	case f := <-ui.frames:
		assert.Equal(t, uint64(5), f.Renders, "only the latest frame is kept")
	default:
		require.Fail(t, "no frame pending")
	}
}

func TestTUI_RunWithoutPrepare(t *testing.T) {
	ui := New(nil, models.AppBuildInfo{}, logger.Nop())
	assert.NoError(t, ui.Run())
}
