package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omEAGRAWAL/peercall/internal/core"
	"github.com/omEAGRAWAL/peercall/internal/domain"
)

// Coordinator owns the connection lifecycle and the call-signaling
// state machine. It is a relay: signaling payloads pass through
// opaque, and the only state it keeps is the presence registry.
//
// Failed preconditions degrade to no-ops. The coordinator never closes
// a transport session; only the adapter's disconnect path does.
type Coordinator struct {
	Registry *Registry
	Casts    *Broadcaster

	// Now is the server clock for chat timestamps, replaceable in tests.
	Now func() time.Time
}

func NewCoordinator(reg *Registry) *Coordinator {
	return &Coordinator{
		Registry: reg,
		Casts:    NewBroadcaster(reg),
		Now:      time.Now,
	}
}

// Connect binds a freshly accepted transport session. The connection
// is not yet a participant until Join is processed.
func (c *Coordinator) Connect(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	c.Registry.BindSignal(sid, conn, cancel)
}

// Join promotes the connection to a participant and pushes the updated
// roster to everyone. Re-join with a new name overwrites the entry.
func (c *Coordinator) Join(sid core.SessionID, name string) error {
	if err := domain.ValidateUsername(name); err != nil {
		return err
	}
	c.Registry.Register(sid, name)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("username", name).Msg("join")
	c.Casts.All(NewRosterEvent(c.Registry.Snapshot()))
	return nil
}

// Message broadcasts a chat line to every open connection. A message
// from a never-joined connection is dropped.
func (c *Coordinator) Message(sid core.SessionID, text string) {
	user, ok := c.Registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("message before join, dropped")
		return
	}
	c.Casts.All(ChatEvent{
		Type:      EventMessage,
		User:      user.Username,
		Text:      text,
		Timestamp: c.Now().UTC(),
	})
}

// CallUser relays an offer blob to the target connection and marks the
// caller busy. An unknown target vanishes silently; the caller stays
// marked busy until disconnect or a fresh join.
func (c *Coordinator) CallUser(sid, target core.SessionID, signal json.RawMessage) {
	caller, ok := c.Registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("callUser before join, dropped")
		return
	}
	c.Registry.SetInCall(sid, true)
	log.Info().Str("module", "app.coordinator").Str("from", string(sid)).Str("to", string(target)).Msg("relaying call offer")
	c.Casts.To(target, CallOfferEvent{
		Type:     EventCallUser,
		Signal:   signal,
		From:     string(sid),
		Username: caller.Username,
	})
}

// AnswerCall relays the answer blob to the original caller and marks
// the answering connection busy.
func (c *Coordinator) AnswerCall(sid, target core.SessionID, signal json.RawMessage) {
	c.Registry.SetInCall(sid, true)
	log.Info().Str("module", "app.coordinator").Str("from", string(sid)).Str("to", string(target)).Msg("relaying call answer")
	c.Casts.To(target, CallAcceptedEvent{Type: EventCallAccepted, Signal: signal})
}

// Ping answers on the same connection only.
func (c *Coordinator) Ping(conn core.SignalConnection) {
	b, err := json.Marshal(PongEvent{Type: EventPong})
	if err != nil {
		return
	}
	_ = conn.TrySend(core.Frame(b))
}

// Disconnect tears down all state for the session and pushes the new
// roster. Idempotent: both removals tolerate absence. A peer mid-call
// keeps its busy flag; there is no call-session teardown in the
// protocol.
func (c *Coordinator) Disconnect(sid core.SessionID) {
	c.Registry.CancelSession(sid)
	c.Registry.Unbind(sid)
	c.Registry.Unregister(sid)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("disconnect")
	c.Casts.All(NewRosterEvent(c.Registry.Snapshot()))
}
