// Package mcserver wires pkg/config, pkg/world, pkg/transport,
// pkg/registry, pkg/persist, pkg/gameplay and pkg/session into the single
// tick loop spec.md §5 describes: one goroutine, non-blocking I/O
// throughout, nothing suspending except inside a Stream's recv/send calls.
// Grounded on the teacher's Server.Start/handleConnection accept-and-serve
// loop in pkg/server/server.go, collapsed from "one goroutine per
// connection plus a ticker goroutine" to "everything happens inside one
// fixed-rate tick," which is the redesign spec.md §9 calls for.
package mcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pico-mc/picocore/pkg/chat"
	"github.com/pico-mc/picocore/pkg/config"
	"github.com/pico-mc/picocore/pkg/gameplay"
	"github.com/pico-mc/picocore/pkg/persist"
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/registry"
	"github.com/pico-mc/picocore/pkg/session"
	"github.com/pico-mc/picocore/pkg/transport"
	"github.com/pico-mc/picocore/pkg/world"
)

// tickRate is the nominal tick frequency spec.md §4.8 names ("a fixed
// nominal 20 Hz").
const tickRate = 20
const tickInterval = time.Second / tickRate

// connSession pairs a live connection with its Session. A session has no
// world.Player.EntityID (and is absent from world.Players) until login
// succeeds, so sessions are tracked here by a server-assigned connection
// id rather than by entity ID.
type connSession struct {
	id   uint64
	sess *session.Session
}

// Server is the top-level process: one World, one Listener, every
// currently-connected Session, and the bookkeeping the tick loop needs
// (keepalive cadence, save cadence). Unlike the teacher's Server, which
// guards Players/Entities maps with a sync.RWMutex for concurrent
// goroutine access, picocore's Server and the World it owns are touched
// only from Run's single loop (spec.md §5/§9 "no internal locking").
type Server struct {
	cfg config.Config
	log *slog.Logger

	world *world.World
	info  *session.ServerInfo

	ln   transport.Listener
	host transport.Host

	sessions   map[uint64]*connSession
	nextConnID uint64

	events   gameplay.Events
	lastSave time.Time
}

// New binds a listener, loads the saved world state (if any) and the
// registry data set, and returns a Server ready for Run. Grounded on the
// teacher's NewServer, which does the equivalent setup (listen, seed the
// world, log startup) synchronously before entering its accept loop.
func New(cfg config.Config, log *slog.Logger) (*Server, error) {
	ln, err := transport.Listen(fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("mcserver: listen: %w", err)
	}

	w := world.NewWorld(cfg.WorldSeed)

	var saveState *persist.State
	if loaded, err := persist.Load(cfg.WorldSavePath); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("world save not loaded, starting fresh", "path", cfg.WorldSavePath, "err", err)
		}
	} else {
		saveState = loaded
		if err := loaded.ApplyChanges(w); err != nil {
			log.Warn("world save rejected, starting fresh", "path", cfg.WorldSavePath, "err", err)
			w = world.NewWorld(cfg.WorldSeed)
			saveState = nil
		} else {
			log.Info("loaded world save", "path", cfg.WorldSavePath, "block_changes", len(loaded.BlockChanges), "players", len(loaded.Players))
		}
	}

	regs, err := registry.Default()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("mcserver: loading registry data: %w", err)
	}

	info := &session.ServerInfo{
		MOTD:            cfg.MOTD,
		ProtocolName:    "1.21.8",
		ProtocolVersion: 772,
		MaxPlayers:      cfg.MaxPlayers,
		Registries:      regs,
		AllowChests:     cfg.AllowChests,
		SaveState:       saveState,
	}

	return &Server{
		cfg:      cfg,
		log:      log,
		world:    w,
		info:     info,
		ln:       ln,
		host:     transport.NoopHost{},
		sessions: make(map[uint64]*connSession),
		lastSave: time.Now(),
	}, nil
}

// Run drives the accept-and-tick loop until ctx is cancelled, then saves
// and closes every session on the way out. This is the single event loop
// spec.md §5 describes: nothing here spawns a goroutine.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("server listening", "port", s.cfg.Port, "motd", s.cfg.MOTD, "protocol", s.info.ProtocolVersion)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("shutting down")
			return s.shutdown()
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one pass of spec.md §4.8's six numbered steps, plus keepalive
// and session cleanup/save bookkeeping the spec's ambient concerns need.
func (s *Server) tick() {
	s.acceptNew()

	// Step 1: process inbound packets for every session up to its byte
	// budget.
	s.events.Reset()
	for _, cs := range s.sessions {
		if cs.sess.Closing() {
			continue
		}
		if err := cs.sess.ProcessInbound(s.world, &s.events); err != nil {
			s.log.Debug("session fault", "conn", cs.id, "err", err)
		}
	}

	// Steps 2-4: advance time, fluids and mob AI/physics; this also
	// recomputes step 5's chunk windows internally.
	edits := append([]gameplay.BlockChangeEvent(nil), s.events.BlockChanges...)
	diffs := gameplay.TickWorld(s.world, s.cfg.DoFluidFlow, edits, &s.events)

	if gameplay.ShouldBroadcastTime(s.world) {
		s.broadcastTime()
	}

	s.flushEvents()
	s.applyChunkDiffs(diffs)
	s.sendKeepalives()

	// Step 6: flush per-client write buffers.
	for _, cs := range s.sessions {
		if err := cs.sess.Stream.Flush(); err != nil {
			cs.sess.Disconnect(err.Error())
		}
	}

	s.reapClosed()
	s.maybeSave()
}

// acceptNew drains every pending connection the listener has queued, since
// Accept itself is already non-blocking (spec.md §5 "no suspension except
// inside Stream recv/send").
func (s *Server) acceptNew() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, transport.ErrWouldBlock) {
				return
			}
			s.log.Error("accept failed", "err", err)
			return
		}
		id := s.nextConnID
		s.nextConnID++
		player := world.NewPlayer(0, "", [16]byte{})
		sess := session.New(conn, s.host, player, s.info)
		s.sessions[id] = &connSession{id: id, sess: sess}
		s.log.Debug("accepted connection", "conn", id, "remote", conn.RemoteAddr())
	}
}

// broadcastTime queues a time-update packet to every play-state session,
// grounded on the teacher's periodic broadcastTimeUpdate.
func (s *Server) broadcastTime() {
	pkt := protocol.EncodeSetTime(s.world.DayTimeTicks, s.world.DayTimeTicks)
	for _, cs := range s.sessions {
		if cs.sess.Player.State != world.StatePlay || cs.sess.Closing() {
			continue
		}
		_ = cs.sess.Stream.QueuePacket(pkt)
	}
}

// flushEvents turns this tick's gameplay.Events into outbound packets:
// block updates to every session with the edited chunk loaded, entity
// status/velocity/position/removal to everyone, and chat delivered per
// TargetEID.
// Grounded on the teacher's broadcastBlockChange/broadcastEntityStatus/
// broadcastChat call sites, collapsed from immediate per-call broadcasts
// into one end-of-tick drain (spec.md §5 "a given tick's block-update
// broadcasts are emitted after the edit that caused them").
func (s *Server) flushEvents() {
	for _, bc := range s.events.BlockChanges {
		s.broadcastBlockChange(bc)
	}
	for _, st := range s.events.EntityStatus {
		pkt := protocol.EncodeEntityStatus(st.EntityID, st.Status)
		s.broadcastToPlay(pkt)
	}
	for _, v := range s.events.Velocities {
		pkt := protocol.EncodeEntityVelocity(v.EntityID, v.VX, v.VY, v.VZ)
		s.broadcastToPlay(pkt)
	}
	for _, mv := range s.events.Moves {
		pkt := protocol.EncodeEntityTeleport(mv.EntityID, mv.X, mv.Y, mv.Z, mv.Yaw, mv.Pitch, mv.OnGround)
		s.broadcastToPlay(pkt)
	}
	if len(s.events.Deaths) > 0 {
		s.broadcastToPlay(protocol.EncodeRemoveEntities(s.events.Deaths))
	}
	for _, ce := range s.events.Chats {
		s.deliverChat(ce)
	}
}

func (s *Server) broadcastBlockChange(bc gameplay.BlockChangeEvent) {
	cx, cz := bc.X>>4, bc.Z>>4
	pkt := protocol.EncodeBlockUpdate(bc.X, bc.Y, bc.Z, int32(bc.Block))
	for _, cs := range s.sessions {
		p := cs.sess.Player
		if p.State != world.StatePlay || cs.sess.Closing() {
			continue
		}
		if !p.LoadedChunks[[2]int32{cx, cz}] {
			continue
		}
		_ = cs.sess.Stream.QueuePacket(pkt)
	}
}

func (s *Server) broadcastToPlay(pkt *protocol.Packet) {
	for _, cs := range s.sessions {
		if cs.sess.Player.State != world.StatePlay || cs.sess.Closing() {
			continue
		}
		_ = cs.sess.Stream.QueuePacket(pkt)
	}
}

// deliverChat sends a chat/system message packet either to every
// play-state session (TargetEID == 0) or to a single one (command
// feedback), per gameplay.ChatEvent's documented meaning.
func (s *Server) deliverChat(ce gameplay.ChatEvent) {
	raw, err := json.Marshal(chat.Colored(ce.Message, ce.Color))
	if err != nil {
		s.log.Error("encoding chat message", "err", err)
		return
	}
	pkt := protocol.EncodeSystemChat(raw, false)

	if ce.TargetEID == 0 {
		s.broadcastToPlay(pkt)
		return
	}
	for _, cs := range s.sessions {
		if cs.sess.Player.EntityID == ce.TargetEID && cs.sess.Player.State == world.StatePlay {
			_ = cs.sess.Stream.QueuePacket(pkt)
			return
		}
	}
}

// applyChunkDiffs sends newly-entered columns and unloads dropped ones for
// every player whose view-distance window moved this tick (spec.md §4.8
// step 5).
func (s *Server) applyChunkDiffs(diffs []gameplay.ChunkDiff) {
	if len(diffs) == 0 {
		return
	}
	byEID := make(map[int32]*connSession, len(s.sessions))
	for _, cs := range s.sessions {
		byEID[cs.sess.Player.EntityID] = cs
	}
	for _, diff := range diffs {
		cs, ok := byEID[diff.PlayerID]
		if !ok || cs.sess.Closing() {
			continue
		}
		for _, pos := range diff.Entered {
			if err := cs.sess.SendChunkColumn(s.world, pos[0], pos[1]); err != nil {
				cs.sess.Disconnect(err.Error())
				break
			}
		}
		for _, pos := range diff.Dropped {
			_ = cs.sess.Stream.QueuePacket(protocol.EncodeUnloadChunk(pos[0], pos[1]))
		}
	}
}

// sendKeepalives pings every play-state session on KeepaliveInterval
// cadence and disconnects any that have gone silent past KeepaliveTimeout
// (spec.md §4.7).
func (s *Server) sendKeepalives() {
	now := time.Now().UnixNano()
	for _, cs := range s.sessions {
		p := cs.sess.Player
		if p.State != world.StatePlay || cs.sess.Closing() {
			continue
		}
		if cs.sess.KeepaliveTimedOut() {
			cs.sess.Disconnect("keepalive timeout")
			continue
		}
		if time.Duration(now-p.LastKeepaliveSent) < protocol.KeepaliveInterval {
			continue
		}
		if err := cs.sess.Stream.QueuePacket(protocol.EncodeKeepAlive(now)); err != nil {
			cs.sess.Disconnect(err.Error())
			continue
		}
		p.LastKeepaliveSent = now
	}
}

// reapClosed removes every session marked closing, closing its
// connection and deregistering its player from the world so it stops
// appearing in chunk windows, mob AI targeting and status broadcasts.
func (s *Server) reapClosed() {
	for id, cs := range s.sessions {
		if !cs.sess.Closing() {
			continue
		}
		_ = cs.sess.Stream.Flush()
		delete(s.world.Players, cs.sess.Player.EntityID)
		delete(s.sessions, id)
		s.log.Info("session closed", "conn", id, "player", cs.sess.Player.Username, "reason", cs.sess.DisconnectReason)
	}
}

// maybeSave writes the world to disk once SaveInterval has elapsed,
// mirroring the teacher's periodic autosave goroutine but run inline from
// the tick loop instead of on its own timer.
func (s *Server) maybeSave() {
	if s.cfg.SaveInterval <= 0 || time.Since(s.lastSave) < s.cfg.SaveInterval {
		return
	}
	s.save()
}

func (s *Server) save() {
	state := persist.Snapshot(s.world)
	if err := persist.Save(s.cfg.WorldSavePath, state); err != nil {
		s.log.Error("world save failed", "path", s.cfg.WorldSavePath, "err", err)
		return
	}
	s.lastSave = time.Now()
	s.log.Info("world saved", "path", s.cfg.WorldSavePath, "block_changes", len(state.BlockChanges), "players", len(state.Players))
}

// shutdown performs a final save and closes every connection and the
// listener, called once Run's context is cancelled.
func (s *Server) shutdown() error {
	reason, err := json.Marshal(chat.Colored("Server closed", "red"))
	if err == nil {
		pkt := protocol.EncodeDisconnectPlay(reason)
		for _, cs := range s.sessions {
			_ = cs.sess.Stream.QueuePacket(pkt)
			_ = cs.sess.Stream.Flush()
		}
	}
	s.save()
	return s.ln.Close()
}
