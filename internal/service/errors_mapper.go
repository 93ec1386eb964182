// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/sprintboard/sprintboard/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrTaskNotFound, err)
	case errors.Is(err, adapter.ErrForbidden), errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case errors.Is(err, adapter.ErrConflict):
		return fmt.Errorf("%w: %v", ErrWriteConflict, err)
	}

	return err
}
