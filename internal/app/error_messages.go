// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// presence backend handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies or into the Error field of presence error frames. Keeping
// them in one place keeps the wording consistent between the two.
package app

const (
	// MsgInvalidMessageFormat is sent when a presence frame cannot be
	// decoded as JSON.
	MsgInvalidMessageFormat = "invalid message format"

	// MsgEntryRequired is sent when a set or onDisconnect request carries no
	// entry.
	MsgEntryRequired = "entry is required"

	// MsgUnknownMessageType is the prefix of the error sent for a frame type
	// the server does not handle.
	MsgUnknownMessageType = "unknown message type"

	// MsgInternalServerError is sent when an unexpected server-side failure
	// occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer id token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgShuttingDown is returned for connections that arrive after the
	// server started shutting down.
	MsgShuttingDown = "server is shutting down"
)
