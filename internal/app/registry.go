package app

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/omEAGRAWAL/peercall/internal/core"
	"github.com/omEAGRAWAL/peercall/internal/domain"
)

type sessionEntry struct {
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

type userEntry struct {
	user *domain.User
	seq  uint64 // join order, for deterministic roster snapshots
}

// Registry is the presence map: the only shared mutable state in the
// relay. Transport sessions are bound at accept time; users exist only
// between join and disconnect. All access goes through the mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	users    map[core.SessionID]*userEntry
	nextSeq  uint64
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		users:    make(map[core.SessionID]*userEntry),
	}
}

// BindSignal attaches a freshly accepted transport session.
func (r *Registry) BindSignal(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

// Unbind removes the transport session. No-op if already gone, so a
// second disconnect for the same sid is harmless.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) Session(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Sessions returns every open transport connection. Roster updates and
// chat go to all of them, joined or not, matching the wire behavior
// clients expect.
func (r *Registry) Sessions() []core.SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.SignalConnection, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.Conn)
	}
	return out
}

func (r *Registry) CancelSession(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// Register promotes a connection to a present participant. Re-join
// overwrites the name, resets the busy flag and keeps the original
// roster position.
func (r *Registry) Register(sid core.SessionID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.users[sid]; ok {
		e.user.Username = username
		e.user.InCall = false
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", username).Msg("re-registered user")
		return
	}
	r.nextSeq++
	r.users[sid] = &userEntry{
		user: &domain.User{ID: domain.UserID(sid), Username: username},
		seq:  r.nextSeq,
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", username).Msg("registered user")
}

// Unregister drops the participant. Disconnect-before-join is a valid
// race, so absence is not an error.
func (r *Registry) Unregister(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered user")
}

// SetInCall flips the busy flag. No-op if the connection dropped
// mid-signal.
func (r *Registry) SetInCall(sid core.SessionID, value bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.users[sid]; ok {
		e.user.InCall = value
	}
}

// Lookup returns a copy of the participant record.
func (r *Registry) Lookup(sid core.SessionID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.users[sid]; ok {
		return *e.user, true
	}
	return domain.User{}, false
}

// Snapshot returns the roster in join order. Always a copy; callers
// may send it after the lock is released.
func (r *Registry) Snapshot() []core.UserDTO {
	type row struct {
		dto core.UserDTO
		seq uint64
	}
	r.mu.RLock()
	rows := make([]row, 0, len(r.users))
	for _, e := range r.users {
		rows = append(rows, row{
			dto: core.UserDTO{ID: e.user.ID, Username: e.user.Username, InCall: e.user.InCall},
			seq: e.seq,
		})
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]core.UserDTO, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.dto)
	}
	return out
}
