// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/sprintboard/sprintboard/internal/service"
)

// ErrUserQuit is returned by LoginFlow when the user leaves without signing in.
var ErrUserQuit = errors.New("user quit")

// humanizeError turns service and transport errors into one short line.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return "You do not have permission to do that"
	case errors.Is(err, service.ErrTaskNotFound):
		return "The task no longer exists"
	case errors.Is(err, service.ErrWriteConflict):
		return "Someone else changed this task, try again"
	case errors.Is(err, service.ErrAlreadyDone):
		return "The task is already done"
	case errors.Is(err, service.ErrReauthorizationFailed):
		return "Calendar sign-in expired, sign in again"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or the server is unavailable"
	}

	return err.Error()
}
