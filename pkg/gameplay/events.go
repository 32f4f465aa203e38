package gameplay

import "github.com/pico-mc/picocore/pkg/world"

// Events carries everything a tick's gameplay logic produced that needs to
// reach clients as packets. pkg/gameplay never touches pkg/protocol or
// pkg/session directly (avoiding an import cycle with pkg/mcserver, which
// wires both); mcserver's tick loop drains an Events value and turns each
// entry into the matching outbound packet for every affected session.
// Grounded on the teacher's broadcastChat/broadcastEntityStatus/
// broadcastAnimation call sites in combat.go/entity.go, collapsed from
// "broadcast immediately over net.Conn" into "record, then flush" to fit
// the single-loop model (spec.md §5).
type Events struct {
	BlockChanges []BlockChangeEvent
	Chats        []ChatEvent
	EntityStatus []EntityStatusEvent
	Velocities   []EntityVelocityEvent
	Moves        []EntityMoveEvent
	Deaths       []int32
}

type BlockChangeEvent struct {
	X, Y, Z int32
	Block   world.Block
}

// ChatEvent is one chat/system message to deliver. TargetEID 0 means
// "broadcast to every player" (ordinary chat, death messages); a nonzero
// TargetEID restricts delivery to that one player (command feedback,
// which should not spam every other player's chat).
type ChatEvent struct {
	Message  string
	Color    string
	TargetEID int32
}

type EntityStatusEvent struct {
	EntityID int32
	Status   byte
}

type EntityVelocityEvent struct {
	EntityID   int32
	VX, VY, VZ float64
}

// EntityMoveEvent is one mob's absolute position/rotation for this tick,
// emitted every tick a mob moves (spec.md §4.8 step 4 "emit
// position/rotation packets").
type EntityMoveEvent struct {
	EntityID       int32
	X, Y, Z        float64
	Yaw, Pitch     float32
	OnGround       bool
}

func (e *Events) BlockChange(x, y, z int32, b world.Block) {
	e.BlockChanges = append(e.BlockChanges, BlockChangeEvent{x, y, z, b})
}

// Chat records a broadcast chat/system message.
func (e *Events) Chat(message, color string) {
	e.Chats = append(e.Chats, ChatEvent{Message: message, Color: color})
}

// ChatTo records a chat/system message delivered only to one player
// (e.g. command feedback), used so a /gamemode reply doesn't spam every
// other connected player's chat.
func (e *Events) ChatTo(targetEID int32, message, color string) {
	e.Chats = append(e.Chats, ChatEvent{Message: message, Color: color, TargetEID: targetEID})
}

func (e *Events) Status(entityID int32, status byte) {
	e.EntityStatus = append(e.EntityStatus, EntityStatusEvent{entityID, status})
}

func (e *Events) Velocity(entityID int32, vx, vy, vz float64) {
	e.Velocities = append(e.Velocities, EntityVelocityEvent{entityID, vx, vy, vz})
}

// Move records a mob's new absolute position for this tick.
func (e *Events) Move(entityID int32, x, y, z float64, yaw, pitch float32, onGround bool) {
	e.Moves = append(e.Moves, EntityMoveEvent{entityID, x, y, z, yaw, pitch, onGround})
}

// Reset clears all recorded events, reusing the underlying slices'
// capacity for the next tick.
func (e *Events) Reset() {
	e.BlockChanges = e.BlockChanges[:0]
	e.Chats = e.Chats[:0]
	e.EntityStatus = e.EntityStatus[:0]
	e.Velocities = e.Velocities[:0]
	e.Moves = e.Moves[:0]
	e.Deaths = e.Deaths[:0]
}
