package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnavailable         = errors.New("service unavailable")

	ErrNotConnected     = errors.New("presence transport not connected")
	ErrPresenceRejected = errors.New("presence request rejected")
	ErrClosed           = errors.New("adapter closed")
	ErrUnsupportedQuery = errors.New("unsupported query")
	ErrInvalidPath      = errors.New("invalid document path")
)
