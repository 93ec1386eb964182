package service

import "errors"

var (
	ErrEmptyCredentials = errors.New("email and password are required")
	ErrWrongPassword    = errors.New("wrong email or password")
	ErrNotSignedIn      = errors.New("not signed in")

	ErrAlreadyDone      = errors.New("task is already done")
	ErrTaskNotFound     = errors.New("task not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrWriteConflict    = errors.New("write conflict")

	ErrReauthorizationFailed = errors.New("calendar re-authorization failed")
)

var (
	ErrUnknownSession     = errors.New("unknown presence session")
	ErrForeignPresence    = errors.New("presence entry belongs to another user")
	ErrEmptyPresenceKey   = errors.New("presence key is required")
	ErrEmptyWorkspaceName = errors.New("workspace is required")
)
