package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/omEAGRAWAL/peercall/internal/core"
)

// Broadcaster fans events out to transport sessions. Delivery is
// best-effort: a full send buffer or a closed connection drops the
// frame for that recipient and never surfaces to the caller.
type Broadcaster struct {
	Registry *Registry
}

func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{Registry: reg}
}

// All sends v to every open connection. The session list is snapshot
// under the registry lock; sends happen outside it.
func (b *Broadcaster) All(v any) {
	frame, err := marshalFrame(v)
	if err != nil {
		return
	}
	dropped := 0
	for _, conn := range b.Registry.Sessions() {
		if err := conn.TrySend(frame); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Warn().Str("module", "app.broadcast").Int("dropped", dropped).Msg("broadcast dropped frames")
	}
}

// To sends v to one connection. An unknown or closed target is a
// silent no-op; the relay gives no delivery confirmation.
func (b *Broadcaster) To(sid core.SessionID, v any) {
	conn, ok := b.Registry.Session(sid)
	if !ok {
		log.Debug().Str("module", "app.broadcast").Str("sid", string(sid)).Msg("unicast target not open")
		return
	}
	frame, err := marshalFrame(v)
	if err != nil {
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "app.broadcast").Str("sid", string(sid)).Err(err).Msg("unicast dropped")
	}
}

func marshalFrame(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("marshal frame")
		return nil, err
	}
	return core.Frame(b), nil
}
