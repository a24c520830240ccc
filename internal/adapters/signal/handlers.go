package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/omEAGRAWAL/peercall/internal/core"
	"github.com/omEAGRAWAL/peercall/internal/domain"
)

type handlerFunc func(ctl *Controller, sid core.SessionID, c *wsConn, data []byte)

// handlers is the inbound dispatch table: event name → handler with
// its own payload schema. Unknown names are rejected, not ignored.
var handlers = map[string]handlerFunc{
	"join":       (*Controller).handleJoin,
	"message":    (*Controller).handleMessage,
	"callUser":   (*Controller).handleCallUser,
	"answerCall": (*Controller).handleAnswerCall,
	"ping":       (*Controller).handlePing,
}

func (ctl *Controller) handleFrame(sid core.SessionID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}
	h, ok := handlers[env.Type]
	if !ok {
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(c, "unknown_event")
		return
	}
	h(ctl, sid, c, data)
}

func (ctl *Controller) handleJoin(sid core.SessionID, c *wsConn, data []byte) {
	type joinPayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if err := ctl.Coord.Join(sid, p.Name); err != nil {
		if errors.Is(err, domain.ErrUsernameEmpty) || errors.Is(err, domain.ErrUsernameTooLong) {
			ctl.sendError(c, "invalid_name")
			return
		}
		ctl.sendError(c, "join_failed")
	}
}

func (ctl *Controller) handleMessage(sid core.SessionID, c *wsConn, data []byte) {
	type messagePayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Coord.Message(sid, p.Text)
}

func (ctl *Controller) handleCallUser(sid core.SessionID, c *wsConn, data []byte) {
	type callPayload struct {
		Type       string          `json:"type"`
		UserToCall string          `json:"userToCall"`
		SignalData json.RawMessage `json:"signalData"`
		// From is accepted on the wire for client compatibility; the
		// transport-assigned sid is authoritative.
		From string `json:"from"`
	}
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad callUser payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Coord.CallUser(sid, core.SessionID(p.UserToCall), p.SignalData)
}

func (ctl *Controller) handleAnswerCall(sid core.SessionID, c *wsConn, data []byte) {
	type answerPayload struct {
		Type   string          `json:"type"`
		To     string          `json:"to"`
		Signal json.RawMessage `json:"signal"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answerCall payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Coord.AnswerCall(sid, core.SessionID(p.To), p.Signal)
}

func (ctl *Controller) handlePing(_ core.SessionID, c *wsConn, _ []byte) {
	ctl.Coord.Ping(c)
}
