// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user-entered board data before it is written.
//
// Services run a Validator on tasks, sprints and calendar events before any
// write leaves the process, so a malformed task never reaches the backend
// and never shows up in another session's mirror. Validation can be scoped
// to a subset of fields, e.g. a new task has no id yet:
//
//	err := v.Validate(ctx, task, validators.FieldTitle, validators.FieldPoints)
package validators

import "context"

// Validator validates a value, optionally restricted to the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
