package session

import (
	"encoding/json"

	"github.com/pico-mc/picocore/pkg/chat"
	"github.com/pico-mc/picocore/pkg/gameplay"
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/world"
)

// sectionsPerColumn is the vertical extent of a chunk column: world Y runs
// 0..255 (spec.md §3 "Coordinates"), sixteen 16-block-tall sections.
const sectionsPerColumn = 16

// maxReach bounds how far a player may mine or place a block from their
// own position, grounded on the teacher's reach check in handleDig/
// handlePlaceBlock.
const maxReach = 6.0

// enterPlay sends the login-play sequence spec.md §4.7 "play" describes:
// login-play, spawn position, and a position-and-look sync, restoring a
// returning player's saved state first if one is on file.
func (s *Session) enterPlay(w *world.World) error {
	p := s.Player
	p.X = float64(w.SpawnX) + 0.5
	p.Y = float64(w.SpawnY)
	p.Z = float64(w.SpawnZ) + 0.5
	p.OnGround = true

	if s.Info.SaveState != nil {
		if rec, ok := s.Info.SaveState.FindPlayer(p.Username); ok {
			rec.Restore(p)
		}
	}

	lp := protocol.LoginPlay{
		EntityID:         p.EntityID,
		GameMode:         p.GameMode,
		PreviousGameMode: -1,
		DimensionIndex:   0,
		MaxPlayers:       int32(s.Info.MaxPlayers),
		ViewDistance:     p.ViewDistance,
	}
	if lp.ViewDistance <= 0 {
		lp.ViewDistance = 8
	}
	if err := s.Stream.QueuePacket(protocol.EncodeLoginPlay(lp)); err != nil {
		return err
	}
	if err := s.Stream.QueuePacket(protocol.EncodeSpawnPosition(w.SpawnX, w.SpawnY, w.SpawnZ, 0)); err != nil {
		return err
	}
	if err := s.Stream.QueuePacket(protocol.EncodeSyncPlayerPosition(p.X, p.Y, p.Z, p.Yaw, p.Pitch, 0, 0)); err != nil {
		return err
	}
	p.SpawnSent = true

	if err := s.sendInitialChunks(w); err != nil {
		return err
	}
	return s.Stream.Flush()
}

// sendInitialChunks sends every column in the player's view-distance
// window up front, mirroring the teacher's sendSpawnChunks so the client
// has ground to stand on the instant it enters the world. Later window
// changes are driven by gameplay.ComputeChunkWindows from the tick loop.
func (s *Session) sendInitialChunks(w *world.World) error {
	p := s.Player
	cx := int32(p.X) >> 4
	cz := int32(p.Z) >> 4
	vd := p.ViewDistance
	if vd <= 0 {
		vd = 8
	}

	for x := cx - vd; x <= cx+vd; x++ {
		for z := cz - vd; z <= cz+vd; z++ {
			if err := s.SendChunkColumn(w, x, z); err != nil {
				return err
			}
			p.LoadedChunks[[2]int32{x, z}] = true
		}
	}
	return nil
}

// SendChunkColumn builds and queues one chunk column from the world's
// terrain generator and section cache, honoring the configured never-baked
// block set (spec.md §4.4 "Re-apply policy").
func (s *Session) SendChunkColumn(w *world.World, cx, cz int32) error {
	col := protocol.ChunkColumn{
		ChunkX:       cx,
		ChunkZ:       cz,
		SectionCount: sectionsPerColumn,
		Sections:     make([][]byte, sectionsPerColumn),
		Biomes:       make([]byte, sectionsPerColumn),
	}
	for cy := int32(0); cy < sectionsPerColumn; cy++ {
		sec, biome := world.BuildSection(w.Generator, w.Cache, w.Changes, cx, cy, cz, s.Info.AllowChests)
		col.Sections[cy] = append([]byte(nil), sec.Bytes()...)
		col.Biomes[cy] = byte(biome)
	}
	return s.Stream.QueuePacket(protocol.EncodeChunkData(col))
}

// handlePlayState dispatches the gameplay-facing packets (spec.md §4.8):
// movement, mining, placement, hotbar selection, chat, and the keepalive
// reply. Grounded on the teacher's handlePlayPacket big-switch dispatch.
func (s *Session) handlePlayState(w *world.World, pkt *protocol.Packet, ev *gameplay.Events) error {
	switch pkt.ID {
	case protocol.KeepAliveRespPacketID:
		if _, err := protocol.DecodeKeepAliveResponse(pkt.Data); err != nil {
			return err
		}
		s.touchKeepalive()
		return nil

	case protocol.SetPlayerPositionPacketID:
		m, err := protocol.DecodeSetPlayerPosition(pkt.Data)
		if err != nil {
			return err
		}
		s.applyMovement(m, true, false)
		return nil

	case protocol.SetPlayerPositionAndRotationPacketID:
		m, err := protocol.DecodeSetPlayerPositionAndRotation(pkt.Data)
		if err != nil {
			return err
		}
		s.applyMovement(m, true, true)
		return nil

	case protocol.SetPlayerRotationPacketID:
		m, err := protocol.DecodeSetPlayerRotation(pkt.Data)
		if err != nil {
			return err
		}
		s.applyMovement(m, false, true)
		return nil

	case protocol.SetPlayerOnGroundPacketID:
		onGround, err := protocol.DecodeSetPlayerOnGround(pkt.Data)
		if err != nil {
			return err
		}
		s.Player.OnGround = onGround
		return nil

	case protocol.PlayerActionPacketID:
		return s.handlePlayerAction(w, pkt, ev)

	case protocol.UseItemOnPacketID:
		return s.handleUseItemOn(w, pkt, ev)

	case protocol.SetHeldItemPacketID:
		slot, err := protocol.DecodeSetHeldItem(pkt.Data)
		if err != nil {
			return err
		}
		if slot >= 0 && slot <= 8 {
			s.Player.SelectedSlot = byte(slot)
		}
		return nil

	case protocol.ChatMessagePacketID:
		msg, err := protocol.DecodeChatMessage(pkt.Data)
		if err != nil {
			return err
		}
		s.handleChat(w, msg, ev)
		return nil

	default:
		return nil
	}
}

func (s *Session) applyMovement(m protocol.PlayerMovement, hasPos, hasRot bool) {
	p := s.Player
	if hasPos {
		p.X, p.Y, p.Z = m.X, m.Y, m.Z
	}
	if hasRot {
		p.Yaw, p.Pitch = m.Yaw, m.Pitch
	}
	p.OnGround = m.OnGround
}

func (s *Session) handleChat(w *world.World, msg string, ev *gameplay.Events) {
	if len(msg) > 0 && msg[0] == '/' {
		gameplay.HandleCommand(w, s.Player, msg, ev)
		return
	}
	ev.Chat(s.Player.Username+": "+msg, "white")
}

// handlePlayerAction resolves a mining packet: only DigFinished edits the
// world (DigStarted/DigCancelled are tracked client-side for instant-break
// blocks picocore doesn't model separately). Grounded on the teacher's
// handleDig, generalized from the 1.8 instant-break table to a flat reach
// check since picocore has no per-block hardness model.
func (s *Session) handlePlayerAction(w *world.World, pkt *protocol.Packet, ev *gameplay.Events) error {
	a, err := protocol.DecodePlayerAction(pkt.Data)
	if err != nil {
		return err
	}
	if a.Status != protocol.DigFinished {
		return nil
	}
	if !withinReach(s.Player, a.X, a.Y, a.Z) {
		return nil
	}
	if err := w.SetBlock(a.X, a.Y, a.Z, world.BlockAir); err != nil {
		return s.disconnectWorldFull(err)
	}
	ev.BlockChange(a.X, a.Y, a.Z, world.BlockAir)
	return nil
}

// handleUseItemOn resolves a block-placement packet: reach check, a
// placeable held item, and an empty destination cell. Grounded on the
// teacher's handlePlaceBlock/faceOffset pair.
func (s *Session) handleUseItemOn(w *world.World, pkt *protocol.Packet, ev *gameplay.Events) error {
	u, err := protocol.DecodeUseItemOn(pkt.Data)
	if err != nil {
		return err
	}
	dx, dy, dz := faceOffset(u.Face)
	tx, ty, tz := u.X+dx, u.Y+dy, u.Z+dz

	if !withinReach(s.Player, tx, ty, tz) {
		return nil
	}
	if w.BlockAt(tx, ty, tz) != world.BlockAir {
		return nil
	}

	held := gameplay.HeldItem(s.Player)
	block, ok := gameplay.ItemIDToBlock(held.ItemID)
	if !ok || held.Count == 0 {
		return nil
	}

	if err := w.SetBlock(tx, ty, tz, block); err != nil {
		return s.disconnectWorldFull(err)
	}
	gameplay.RemoveFromSlot(s.Player, int(gameplay.SlotHotbarStart)+int(s.Player.SelectedSlot), 1)
	ev.BlockChange(tx, ty, tz, block)
	return nil
}

// disconnectWorldFull handles world.ErrBlockChangeFull per spec.md §9:
// "the spec prescribes per-session disconnect with a WorldFull reason."
func (s *Session) disconnectWorldFull(err error) error {
	reason, _ := json.Marshal(chat.Colored("The world is full", "red"))
	_ = s.Stream.QueuePacket(protocol.EncodeDisconnectPlay(reason))
	_ = s.Stream.Flush()
	s.Disconnect("WorldFull")
	return err
}

// withinReach reports whether a target block position is within maxReach
// blocks of the player's position (feet; no eye-height offset).
func withinReach(p *world.Player, x, y, z int32) bool {
	dx := p.X - (float64(x) + 0.5)
	dy := p.Y - (float64(y) + 0.5)
	dz := p.Z - (float64(z) + 0.5)
	return dx*dx+dy*dy+dz*dz <= maxReach*maxReach
}

// faceOffset converts a block-face index (0..5, vanilla's -Y,+Y,-Z,+Z,-X,+X
// order) into the unit offset toward the adjacent cell a placement lands
// in. Grounded on the teacher's faceOffset helper in world.go.
func faceOffset(face byte) (dx, dy, dz int32) {
	switch face {
	case 0:
		return 0, -1, 0
	case 1:
		return 0, 1, 0
	case 2:
		return 0, 0, -1
	case 3:
		return 0, 0, 1
	case 4:
		return -1, 0, 0
	case 5:
		return 1, 0, 0
	default:
		return 0, 1, 0
	}
}
