package world

import "github.com/pico-mc/picocore/pkg/hashrand"

// InventorySize is the player inventory slot count (§3): hotbar, main
// storage, armor and offhand collapsed into a single 41-slot array, unlike
// the teacher's 45-slot 1.8 layout (crafting grid handled separately here).
const InventorySize = 41

// ItemStack is one inventory slot's contents. A zero value (ItemID 0,
// Count 0) is an empty slot.
type ItemStack struct {
	ItemID uint16
	Count  byte
}

// Weather enumerates the broadcastable weather states (§3 world_state).
type Weather byte

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherThunder
)

// BlockPos is a world-absolute block coordinate, used as a map key for
// chests and other block-entity-like state (§3).
type BlockPos struct {
	X, Y, Z int32
}

// SessionState is the connection-state-machine value carried on a Player
// record (§4.7); the session package owns the transitions, this package
// only stores the current value for world-visible decisions (e.g. whether
// to include a player in a tick pass).
type SessionState byte

const (
	StateHandshake SessionState = iota
	StateStatus
	StateLogin
	StateConfiguration
	StatePlay
	StateClosing
)

// Player is the per-client game-state record (§3 "Player/session"). The
// transport/session-specific fields (fd, buffers, peek state) live in
// pkg/session.Session, which embeds a *Player; this struct is the part
// the gameplay/tick engine and the world package need to reason about.
type Player struct {
	EntityID int32
	State    SessionState

	ProtocolVersion int32
	Username        string
	UUID            [16]byte

	X, Y, Z  float64
	Yaw      float32
	Pitch    float32
	OnGround bool

	ViewDistance int32
	GameMode     byte
	Health       float32
	IsDead       bool

	Inventory    [InventorySize]ItemStack
	SelectedSlot byte

	LastKeepaliveSent     int64
	LastKeepaliveReceived int64
	SpawnSent             bool

	LoadedChunks map[[2]int32]bool
}

// NewPlayer creates a Player record with the given entity ID and username,
// inventory empty, positioned at the origin. Callers place it at the
// world spawn point before first use.
func NewPlayer(entityID int32, username string, uuid [16]byte) *Player {
	return &Player{
		EntityID:     entityID,
		State:        StateHandshake,
		Username:     username,
		UUID:         uuid,
		GameMode:     0,
		Health:       20,
		LoadedChunks: make(map[[2]int32]bool, 256),
	}
}

// EntityKind enumerates the mob kinds the tick engine drives (§4.8).
type EntityKind byte

const (
	EntityZombie EntityKind = iota
	EntityCow
)

// Entity is a mob record (§3 "Entity (mob)").
type Entity struct {
	ID       int32
	Kind     EntityKind
	X, Y, Z  float64
	VX, VY, VZ float64
	Yaw, Pitch float32
	Health     float32
	TargetEID  int32 // 0 means no target
	LastTick   int64
}

// ChestData is the 27-slot inventory of a placed chest (§4.8 step 5),
// keyed by block position in World.Chests. Grounded on the teacher's
// ChestData/chests map in pkg/server/server.go, generalized from a
// server-owned map guarded by sync.RWMutex to single-loop ownership.
type ChestData struct {
	Slots [27]ItemStack
}

// World is the single owned instance of all shared mutable game state
// (§3 "World state", §9 "global mutable state -> owned singleton"). It is
// touched only from the server's main loop or from a packet handler
// invoked synchronously by that loop (§3 "Ownership") — there is
// deliberately no mutex here, unlike the teacher's sync.RWMutex-guarded
// Server.players/entities maps.
type World struct {
	Seed         int64
	HashedSeed   uint32
	DayTimeTicks int64
	TickCounter  int64
	Weather      Weather
	SpawnX       int32
	SpawnY       int32
	SpawnZ       int32

	Players  map[int32]*Player
	Entities map[int32]*Entity
	Chests   map[BlockPos]*ChestData

	Generator *Generator
	Cache     *SectionCache
	Changes   *BlockChangeIndex

	nextEntityID int32
}

// NewWorld creates a world from a raw seed. Per §3, the seed is hashed
// twice through splitmix64 before use; DefaultGenConfig already performs
// that double hash, so HashedSeed mirrors the value the generator uses.
func NewWorld(seed int64) *World {
	cfg := DefaultGenConfig(seed)
	return &World{
		Seed:         seed,
		HashedSeed:   cfg.Seed,
		SpawnY:       int32(cfg.TerrainBaseHeight) + 1,
		Players:      make(map[int32]*Player),
		Entities:     make(map[int32]*Entity),
		Chests:       make(map[BlockPos]*ChestData),
		Generator:    NewGeneratorWithConfig(cfg),
		Cache:        NewSectionCache(DefaultCacheCapacity),
		Changes:      NewBlockChangeIndex(MaxBlockChanges),
		nextEntityID: 1,
	}
}

// NextEntityID allocates and returns a fresh entity ID, used for both
// players and mobs so IDs never collide (§3).
func (w *World) NextEntityID() int32 {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// SetBlock records a player-caused block edit and invalidates the cached
// section so the next BuildSection call re-applies it.
func (w *World) SetBlock(x, y, z int32, b Block) error {
	if err := w.Changes.Set(x, y, z, b); err != nil {
		return err
	}
	w.Cache.Invalidate(x, y, z)
	return nil
}

// BlockAt resolves the current block at a world position, overlay first.
func (w *World) BlockAt(x, y, z int32) Block {
	if b, ok := w.Changes.Lookup(x, y, z); ok {
		return b
	}
	return w.Generator.BlockAt(x, y, z)
}

// HashSeedDisplay is the 32-bit value shown to clients/logs for this
// world's seed, per §4.2's pack/hash rule.
func HashSeedDisplay(seed int64) uint32 {
	return uint32(hashrand.SplitMix64(hashrand.SplitMix64(uint64(seed))))
}
