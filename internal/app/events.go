package app

import (
	"encoding/json"
	"time"

	"github.com/omEAGRAWAL/peercall/internal/core"
)

// Server→client event names.
const (
	EventUserList     = "userList"
	EventMessage      = "message"
	EventCallUser     = "callUser"
	EventCallAccepted = "callAccepted"
	EventPong         = "pong"
	EventError        = "error"
)

// RosterEvent carries the full presence snapshot in join order.
type RosterEvent struct {
	Type  string         `json:"type"`
	Users []core.UserDTO `json:"users"`
}

func NewRosterEvent(users []core.UserDTO) RosterEvent {
	return RosterEvent{Type: EventUserList, Users: users}
}

// ChatEvent is an ephemeral chat message; the timestamp is assigned by
// the server clock, never by the sender.
type ChatEvent struct {
	Type      string    `json:"type"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CallOfferEvent relays an opaque signaling blob to the callee. The
// signal is forwarded byte-for-byte and never inspected.
type CallOfferEvent struct {
	Type     string          `json:"type"`
	Signal   json.RawMessage `json:"signal"`
	From     string          `json:"from"`
	Username string          `json:"username"`
}

// CallAcceptedEvent relays the answer blob back to the caller.
type CallAcceptedEvent struct {
	Type   string          `json:"type"`
	Signal json.RawMessage `json:"signal"`
}

type PongEvent struct {
	Type string `json:"type"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewErrorEvent(reason string) ErrorEvent {
	return ErrorEvent{Type: EventError, Error: reason}
}
