package models

import "time"

// PresenceState is the liveness state of one session.
type PresenceState string

const (
	PresenceOnline  PresenceState = "online"
	PresenceOffline PresenceState = "offline"
)

// PresenceEntry is one session's liveness record in the presence feed.
type PresenceEntry struct {
	// Key identifies the session that wrote the entry.
	Key string `json:"key"`

	// UserID is the identity key; online views are deduplicated by it.
	UserID string `json:"user_id"`

	Name  string `json:"name"`
	Email string `json:"email,omitempty"`

	State PresenceState `json:"state"`

	// LastChanged is stamped by the presence backend on every write.
	LastChanged time.Time `json:"last_changed"`
}

// Online reports whether the entry is in the online state.
func (e PresenceEntry) Online() bool {
	return e.State == PresenceOnline
}

// DisplayName returns Name, falling back to Email and then UserID.
func (e PresenceEntry) DisplayName() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.Email != "":
		return e.Email
	default:
		return e.UserID
	}
}

// Presence wire message types exchanged with the presence backend.
const (
	// server to client
	PresenceMsgConnected = "connected"
	PresenceMsgFeed      = "feed"
	PresenceMsgAck       = "ack"
	PresenceMsgError     = "error"

	// client to server
	PresenceMsgSet          = "set"
	PresenceMsgOnDisconnect = "onDisconnect"
)

// PresenceMessage is one JSON frame of the presence protocol.
//
// Requests carry a Ref that the backend echoes in the matching ack or error
// frame. A feed frame always carries the full set of entries of the
// workspace, never a diff.
type PresenceMessage struct {
	Type    string          `json:"type"`
	Ref     uint64          `json:"ref,omitempty"`
	Key     string          `json:"key,omitempty"`
	Entry   *PresenceEntry  `json:"entry,omitempty"`
	Entries []PresenceEntry `json:"entries,omitempty"`
	Session string          `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}
