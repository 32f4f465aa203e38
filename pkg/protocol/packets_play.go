package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/pico-mc/picocore/pkg/varint"
)

// Clientbound play-state packet IDs (spec.md §4.7 "play", §4.8).
const (
	LoginPlayPacketID           = 0x2B
	KeepAlivePacketIDClientbound = 0x26
	ChunkDataPacketID           = 0x27
	BlockUpdatePacketID         = 0x09
	SpawnPositionPacketID       = 0x5A
	SyncPlayerPositionPacketID  = 0x40
	DisconnectPlayPacketID      = 0x1D
	SetTimePacketID             = 0x64
	EntityPositionPacketID      = 0x2F // relative move
	EntityTeleportPacketID      = 0x00
	RemoveEntitiesPacketID      = 0x45
	SystemChatPacketID          = 0x73
	UnloadChunkPacketID         = 0x22
)

// Serverbound play-state packet IDs the gameplay dispatcher handles.
const (
	KeepAliveRespPacketID = 0x1A

	// Movement packets, the stale-drain range (spec.md §4.6).
	SetPlayerPositionPacketID            = 0x1D
	SetPlayerPositionAndRotationPacketID = 0x1E
	SetPlayerRotationPacketID            = 0x1F
	SetPlayerOnGroundPacketID            = 0x20

	PlayerActionPacketID  = 0x24
	UseItemOnPacketID     = 0x38
	SetHeldItemPacketID   = 0x2F
	ChatMessagePacketID   = 0x06
)

// LoginPlay is the clientbound packet that finalizes entry into the play
// state: entity ID, gamemode, dimension index, and the misc flags the
// client needs before it will render anything. Grounded on the teacher's
// Join Game packet (handlePlay's joinGame builder), extended past the 1.8
// single-dimension-byte model to an index into the registry data already
// sent during configuration (§4.7).
type LoginPlay struct {
	EntityID         int32
	Hardcore         bool
	GameMode         byte
	PreviousGameMode int8
	DimensionIndex   int32
	MaxPlayers       int32
	ViewDistance     int32
	ReducedDebugInfo bool
}

func EncodeLoginPlay(lp LoginPlay) *Packet {
	return MarshalPacket(LoginPlayPacketID, func(w *bytes.Buffer) {
		varint.WriteInt32(w, lp.EntityID)
		varint.WriteBool(w, lp.Hardcore)
		varint.WriteVarInt(w, 1) // dimension count: a single overworld-like dimension
		varint.WriteString(w, "picocore:overworld")
		varint.WriteVarInt(w, lp.MaxPlayers)
		varint.WriteVarInt(w, lp.ViewDistance)
		varint.WriteVarInt(w, lp.ViewDistance) // simulation distance, same budget
		varint.WriteBool(w, lp.ReducedDebugInfo)
		varint.WriteBool(w, true) // respawn screen enabled
		varint.WriteBool(w, false) // limited crafting
		varint.WriteString(w, "picocore:overworld")
		varint.WriteInt32(w, lp.DimensionIndex)
		varint.WriteUint8(w, lp.GameMode)
		varint.WriteInt8(w, lp.PreviousGameMode)
		varint.WriteBool(w, false) // is debug world
		varint.WriteBool(w, false) // is flat
		varint.WriteBool(w, false) // has death location
		varint.WriteVarInt(w, 0)   // portal cooldown
		varint.WriteVarInt(w, 0)   // sea level reporting handled client-side
		varint.WriteBool(w, false) // enforces secure chat
	})
}

// EncodeSpawnPosition builds the clientbound spawn-position packet.
func EncodeSpawnPosition(x, y, z int32, angle float32) *Packet {
	return MarshalPacket(SpawnPositionPacketID, func(w *bytes.Buffer) {
		varint.WritePosition(w, x, y, z)
		varint.WriteFloat32(w, angle)
	})
}

// EncodeSyncPlayerPosition builds the position-and-look sync packet; teleportID
// must be echoed by the client's confirm-teleport packet (ignored here since
// picocore has only one outstanding teleport per player at a time).
func EncodeSyncPlayerPosition(x, y, z float64, yaw, pitch float32, flags byte, teleportID int32) *Packet {
	return MarshalPacket(SyncPlayerPositionPacketID, func(w *bytes.Buffer) {
		varint.WriteFloat64(w, x)
		varint.WriteFloat64(w, y)
		varint.WriteFloat64(w, z)
		varint.WriteFloat64(w, 0) // velocity x/y/z: not carried across teleports
		varint.WriteFloat64(w, 0)
		varint.WriteFloat64(w, 0)
		varint.WriteFloat32(w, yaw)
		varint.WriteFloat32(w, pitch)
		varint.WriteUint8(w, flags)
		varint.WriteVarInt(w, teleportID)
	})
}

// EncodeKeepAlive/DecodeKeepAliveResponse carry the same 8-byte opaque
// payload in both directions (spec.md §4.7 keepalive cycle).
func EncodeKeepAlive(id int64) *Packet {
	return MarshalPacket(KeepAlivePacketIDClientbound, func(w *bytes.Buffer) {
		varint.WriteInt64(w, id)
	})
}

func DecodeKeepAliveResponse(data []byte) (int64, error) {
	return varint.ReadInt64(bytes.NewReader(data))
}

// EncodeSetTime builds the day/night broadcast packet (spec.md §4.8 step 2).
func EncodeSetTime(worldAge, dayTime int64) *Packet {
	return MarshalPacket(SetTimePacketID, func(w *bytes.Buffer) {
		varint.WriteInt64(w, worldAge)
		varint.WriteInt64(w, dayTime)
	})
}

// EncodeBlockUpdate builds the clientbound single-block-change packet
// (spec.md §4.8 "Block break/place handlers ... broadcast a block-update
// packet").
func EncodeBlockUpdate(x, y, z int32, blockStateID int32) *Packet {
	return MarshalPacket(BlockUpdatePacketID, func(w *bytes.Buffer) {
		varint.WritePosition(w, x, y, z)
		varint.WriteVarInt(w, blockStateID)
	})
}

// ChunkColumn is one chunk's worth of sections plus its biome array, ready
// to frame into a single clientbound chunk-data packet (spec.md §4.4's
// section bytes are already in the reversed-octet layout the wire wants).
type ChunkColumn struct {
	ChunkX, ChunkZ int32
	SectionCount   int32
	Sections       [][]byte // each exactly world.SectionVolume bytes
	Biomes         []byte   // one byte per section, in the same order
}

// EncodeChunkData frames a full column. Unlike vanilla's heightmap/light
// NBT payload, picocore sends only the section bytes and a parallel biome
// array — light and heightmaps are computed client-side from the raw
// blocks, which keeps the server free of any lighting engine (out of
// scope per spec.md §1).
func EncodeChunkData(c ChunkColumn) *Packet {
	return MarshalPacket(ChunkDataPacketID, func(w *bytes.Buffer) {
		varint.WriteInt32(w, c.ChunkX)
		varint.WriteInt32(w, c.ChunkZ)
		varint.WriteVarInt(w, c.SectionCount)
		for i, sec := range c.Sections {
			w.WriteByte(c.Biomes[i])
			varint.WriteVarInt(w, int32(len(sec)))
			w.Write(sec)
		}
	})
}

// EncodeUnloadChunk builds the clientbound packet telling a client to
// forget a column that fell out of its view-distance window (spec.md §4.8
// step 5 "drop columns that fell out").
func EncodeUnloadChunk(cx, cz int32) *Packet {
	return MarshalPacket(UnloadChunkPacketID, func(w *bytes.Buffer) {
		varint.WriteInt32(w, cz)
		varint.WriteInt32(w, cx)
	})
}

// EncodeEntityTeleport builds the clientbound absolute entity-position
// packet used for mob position broadcasts (spec.md §4.8 step 4 "emit
// position/rotation packets"). picocore always sends the absolute form
// rather than the delta-encoded relative-move variant, trading a few
// extra bytes per mob for a much simpler encoder.
func EncodeEntityTeleport(entityID int32, x, y, z float64, yaw, pitch float32, onGround bool) *Packet {
	return MarshalPacket(EntityTeleportPacketID, func(w *bytes.Buffer) {
		varint.WriteVarInt(w, entityID)
		varint.WriteFloat64(w, x)
		varint.WriteFloat64(w, y)
		varint.WriteFloat64(w, z)
		varint.WriteFloat32(w, yaw)
		varint.WriteFloat32(w, pitch)
		varint.WriteBool(w, onGround)
	})
}

// EntityStatusPacketID is the clientbound packet carrying one of the
// gameplay.StatusHurt/StatusDead byte codes.
const EntityStatusPacketID = 0x1F

// EncodeEntityStatus builds the clientbound entity-status packet (hurt,
// death animations).
func EncodeEntityStatus(entityID int32, status byte) *Packet {
	return MarshalPacket(EntityStatusPacketID, func(w *bytes.Buffer) {
		varint.WriteInt32(w, entityID)
		varint.WriteUint8(w, status)
	})
}

// EntityVelocityPacketID is the clientbound packet carrying a knockback or
// physics velocity update.
const EntityVelocityPacketID = 0x5F

// velocityScale converts blocks/tick to the protocol's fixed-point
// 1/8000-block velocity units.
const velocityScale = 8000.0

// EncodeEntityVelocity builds the clientbound entity-velocity packet.
func EncodeEntityVelocity(entityID int32, vx, vy, vz float64) *Packet {
	return MarshalPacket(EntityVelocityPacketID, func(w *bytes.Buffer) {
		varint.WriteVarInt(w, entityID)
		varint.WriteInt16(w, int16(vx*velocityScale))
		varint.WriteInt16(w, int16(vy*velocityScale))
		varint.WriteInt16(w, int16(vz*velocityScale))
	})
}

// EncodeRemoveEntities builds the clientbound packet removing one or more
// entity IDs from the client's world (death, despawn).
func EncodeRemoveEntities(entityIDs []int32) *Packet {
	return MarshalPacket(RemoveEntitiesPacketID, func(w *bytes.Buffer) {
		varint.WriteVarInt(w, int32(len(entityIDs)))
		for _, id := range entityIDs {
			varint.WriteVarInt(w, id)
		}
	})
}

// EncodeSystemChat builds a clientbound system message (join/leave
// announcements, command feedback).
func EncodeSystemChat(msg json.RawMessage, overlay bool) *Packet {
	return MarshalPacket(SystemChatPacketID, func(w *bytes.Buffer) {
		w.Write(msg)
		varint.WriteBool(w, overlay)
	})
}

// EncodeDisconnectPlay builds the clientbound disconnect-with-reason
// packet sent on any fatal codec error or timeout (spec.md §4.7).
func EncodeDisconnectPlay(reasonJSON json.RawMessage) *Packet {
	return MarshalPacket(DisconnectPlayPacketID, func(w *bytes.Buffer) {
		w.Write(reasonJSON)
	})
}

// PlayerMovement is the decoded form of whichever of the four stale-drain
// movement packets (0x1D..0x20) arrived; fields not carried by a given
// packet ID are zero-valued, and the session only applies the fields the
// specific packet updates.
type PlayerMovement struct {
	X, Y, Z  float64
	Yaw      float32
	Pitch    float32
	OnGround bool
}

// DecodeSetPlayerPosition parses packet 0x1D: x, y, z, on_ground.
func DecodeSetPlayerPosition(data []byte) (PlayerMovement, error) {
	r := bytes.NewReader(data)
	var m PlayerMovement
	var err error
	if m.X, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Y, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Z, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.OnGround, err = varint.ReadBool(r); err != nil {
		return PlayerMovement{}, err
	}
	return m, nil
}

// DecodeSetPlayerPositionAndRotation parses packet 0x1E: x, y, z, yaw,
// pitch, on_ground.
func DecodeSetPlayerPositionAndRotation(data []byte) (PlayerMovement, error) {
	r := bytes.NewReader(data)
	var m PlayerMovement
	var err error
	if m.X, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Y, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Z, err = varint.ReadFloat64(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Yaw, err = varint.ReadFloat32(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Pitch, err = varint.ReadFloat32(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.OnGround, err = varint.ReadBool(r); err != nil {
		return PlayerMovement{}, err
	}
	return m, nil
}

// DecodeSetPlayerRotation parses packet 0x1F: yaw, pitch, on_ground.
func DecodeSetPlayerRotation(data []byte) (PlayerMovement, error) {
	r := bytes.NewReader(data)
	var m PlayerMovement
	var err error
	if m.Yaw, err = varint.ReadFloat32(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.Pitch, err = varint.ReadFloat32(r); err != nil {
		return PlayerMovement{}, err
	}
	if m.OnGround, err = varint.ReadBool(r); err != nil {
		return PlayerMovement{}, err
	}
	return m, nil
}

// DecodeSetPlayerOnGround parses packet 0x20: on_ground only.
func DecodeSetPlayerOnGround(data []byte) (bool, error) {
	return varint.ReadBool(bytes.NewReader(data))
}

// DiggingStatus enumerates the PlayerAction packet's status field.
type DiggingStatus int32

const (
	DigStarted DiggingStatus = iota
	DigCancelled
	DigFinished
)

// PlayerAction is the decoded serverbound mining packet.
type PlayerAction struct {
	Status DiggingStatus
	X, Y, Z int32
	Face   byte
}

func DecodePlayerAction(data []byte) (PlayerAction, error) {
	r := bytes.NewReader(data)
	var a PlayerAction
	var err error
	var status int32
	if status, err = varint.ReadVarInt(r); err != nil {
		return PlayerAction{}, err
	}
	a.Status = DiggingStatus(status)
	if a.X, a.Y, a.Z, err = varint.ReadPosition(r); err != nil {
		return PlayerAction{}, err
	}
	if a.Face, err = varint.ReadUint8(r); err != nil {
		return PlayerAction{}, err
	}
	return a, nil
}

// UseItemOn is the decoded serverbound block-place packet.
type UseItemOn struct {
	X, Y, Z int32
	Face    byte
	CursorX, CursorY, CursorZ float32
}

func DecodeUseItemOn(data []byte) (UseItemOn, error) {
	r := bytes.NewReader(data)
	var u UseItemOn
	var err error
	// hand (VarInt) precedes position in the real protocol; picocore only
	// has one conceptual hand, so it is read and discarded here.
	if _, err = varint.ReadVarInt(r); err != nil {
		return UseItemOn{}, err
	}
	if u.X, u.Y, u.Z, err = varint.ReadPosition(r); err != nil {
		return UseItemOn{}, err
	}
	var face int32
	if face, err = varint.ReadVarInt(r); err != nil {
		return UseItemOn{}, err
	}
	u.Face = byte(face)
	if u.CursorX, err = varint.ReadFloat32(r); err != nil {
		return UseItemOn{}, err
	}
	if u.CursorY, err = varint.ReadFloat32(r); err != nil {
		return UseItemOn{}, err
	}
	if u.CursorZ, err = varint.ReadFloat32(r); err != nil {
		return UseItemOn{}, err
	}
	return u, nil
}

// DecodeSetHeldItem parses the hotbar-selection packet (int16 slot 0..8).
func DecodeSetHeldItem(data []byte) (int16, error) {
	return varint.ReadInt16(bytes.NewReader(data))
}

const maxChatLen = 256

// DecodeChatMessage parses a serverbound chat message.
func DecodeChatMessage(data []byte) (string, error) {
	return varint.ReadString(bytes.NewReader(data), maxChatLen)
}
