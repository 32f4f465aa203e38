// Package session binds one connection's protocol.Stream to its
// world.Player and dispatches decoded packets to the handler for whatever
// state the player is currently in. It is grounded on the teacher's
// handleConnection's state-switch loop in pkg/server/server.go, split one
// file per state the way go-theft-craft-server's conn/handler_*.go does,
// and adapted from "one goroutine blocks on ReadPacket forever" to
// "the main loop polls every session once per turn" (spec.md §5).
package session

import (
	"time"

	"github.com/pico-mc/picocore/pkg/gameplay"
	"github.com/pico-mc/picocore/pkg/persist"
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/registry"
	"github.com/pico-mc/picocore/pkg/transport"
	"github.com/pico-mc/picocore/pkg/world"
)

// ServerInfo is the small set of server-wide, mostly-static facts a
// session's status/login handlers need (MOTD, protocol name/version,
// player cap). It is shared read-only across all sessions in a tick;
// pkg/mcserver owns the single instance and hands every Session the same
// pointer.
type ServerInfo struct {
	MOTD            string
	ProtocolName    string
	ProtocolVersion int32
	MaxPlayers      int

	// Registries is the opaque registry-data set loaded at startup
	// (spec.md §6 "Registry data"), transmitted verbatim during
	// configuration.
	Registries []registry.Entry

	// AllowChests decides whether chests join the never-baked block set,
	// mirroring the §6 enumerated option of the same name.
	AllowChests bool

	// SaveState is whatever pkg/persist loaded at startup, consulted on
	// login so a returning player's inventory/position is restored
	// instead of spawned fresh. Nil on a first-ever boot or after a
	// rolled-back (truncated) load.
	SaveState *persist.State
}

// PerTickByteBudget bounds how many bytes of inbound packets a single
// session may process in one call to ProcessInbound, so one chatty or
// malicious client cannot starve the tick loop's other sessions (spec.md
// §4.8 step 1: "up to a per-session byte budget").
const PerTickByteBudget = 8192

// Session is the per-connection record: the framing layer, the game
// state it drives, and housekeeping for keepalive/disconnect. Unlike the
// teacher's Player, which embeds both transport (net.Conn) and game state
// behind a sync.Mutex, picocore keeps the *world.Player pointer as the
// single game-state source of truth (owned by the world, not the
// session) and stores only connection-local bookkeeping here.
type Session struct {
	Stream *protocol.Stream
	Player *world.Player
	Info   *ServerInfo

	DisconnectReason string
	closing          bool
}

// New wraps an accepted connection in a Session, with its Player still in
// the handshake state.
func New(conn transport.Conn, host transport.Host, player *world.Player, info *ServerInfo) *Session {
	return &Session{
		Stream: protocol.NewStream(conn, host),
		Player: player,
		Info:   info,
	}
}

// Closing reports whether this session has been marked for teardown by a
// handler (fatal codec error, keepalive timeout, disconnect command).
func (s *Session) Closing() bool { return s.closing }

// Disconnect marks the session closing with a reason, mirroring the
// teacher's practice of logging then returning from handleConnection on
// any fatal error (here expressed as state instead of an early return,
// since the main loop owns when the connection actually closes).
func (s *Session) Disconnect(reason string) {
	s.closing = true
	s.DisconnectReason = reason
	s.Player.State = world.StateClosing
}

// ProcessInbound polls and dispatches packets for this session until
// either the byte budget is exhausted, no more packets are buffered, or
// the session closes. It never blocks — PollPacket already only returns
// what is already on the wire (spec.md §4.8 step 1, §5).
func (s *Session) ProcessInbound(w *world.World, ev *gameplay.Events) error {
	budget := PerTickByteBudget
	for budget > 0 && !s.closing {
		pkt, ok, err := s.Stream.PollPacket()
		if err != nil {
			s.Disconnect(err.Error())
			return err
		}
		if !ok {
			return nil
		}
		budget -= len(pkt.Data) + 1

		if err := s.dispatch(w, pkt, ev); err != nil {
			s.Disconnect(err.Error())
			return err
		}
	}
	return nil
}

func (s *Session) dispatch(w *world.World, pkt *protocol.Packet, ev *gameplay.Events) error {
	switch s.Player.State {
	case world.StateHandshake:
		return s.handleHandshakeState(pkt)
	case world.StateStatus:
		return s.handleStatusState(w, pkt)
	case world.StateLogin:
		return s.handleLoginState(w, pkt)
	case world.StateConfiguration:
		return s.handleConfigurationState(w, pkt)
	case world.StatePlay:
		return s.handlePlayState(w, pkt, ev)
	default:
		return nil
	}
}

// touchKeepalive records that the client answered a keepalive in time,
// called from handlePlayState on a KeepAliveRespPacketID.
func (s *Session) touchKeepalive() {
	s.Player.LastKeepaliveReceived = time.Now().UnixNano()
}

// KeepaliveTimedOut reports whether this session has gone silent for
// longer than protocol.KeepaliveTimeout since its last keepalive reply
// (spec.md §4.7: "Receiving no keepalive-reply for KEEPALIVE_TIMEOUT
// transitions to closing").
func (s *Session) KeepaliveTimedOut() bool {
	if s.Player.State != world.StatePlay || s.Player.LastKeepaliveReceived == 0 {
		return false
	}
	elapsed := time.Duration(time.Now().UnixNano()-s.Player.LastKeepaliveReceived) * time.Nanosecond
	return elapsed > protocol.KeepaliveTimeout
}
