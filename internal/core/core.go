// Package core holds the contracts shared between the app layer and
// the transport adapters.
package core

import "github.com/omEAGRAWAL/peercall/internal/domain"

// Frame is a raw outbound payload, already serialized.
type Frame []byte

// SessionID identifies one live transport session. Assigned by the
// adapter at accept time and never reused while references are live.
type SessionID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// UserDTO is a read-only roster view (no transport fields).
type UserDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	InCall   bool          `json:"inCall"`
}
