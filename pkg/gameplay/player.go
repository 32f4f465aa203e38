// Package gameplay implements the player/entity table, inventory and
// crafting, combat, mob AI, fluid flow, and the fixed-cadence tick
// scheduler spec.md §4.8 describes. It is grounded file-for-file on the
// teacher's pkg/server/{player,inventory,crafting,combat,entity,command}.go,
// generalized from the 1.8 45-slot/16-bit-item-ID model to the 1.21.8-era
// 41-slot/8-bit-palette model spec.md §3 specifies.
package gameplay

import (
	"crypto/md5"

	"github.com/pico-mc/picocore/pkg/world"
)

// OfflineUUID derives the vanilla offline-mode player UUID: an MD5-based
// UUID (RFC 4122 version 3, with Mojang's variant bit convention) of
// "OfflinePlayer:<username>". Grounded on the teacher's hand-rolled
// offlineUUID/formatUUID pair in server.go. The MD5 covers only those
// bytes, with no namespace prefix, exactly as vanilla's does.
func OfflineUUID(username string) [16]byte {
	id := md5.Sum([]byte("OfflinePlayer:" + username))
	id[6] = (id[6] & 0x0f) | 0x30 // version 3
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// Gamemode constants matching the Minecraft protocol's gamemode byte,
// unchanged in meaning from the teacher's 1.8 constants.
const (
	GameModeSurvival  byte = 0
	GameModeCreative  byte = 1
	GameModeAdventure byte = 2
	GameModeSpectator byte = 3
)

// Inventory slot ranges for the 41-slot layout spec.md §3 specifies: 9
// hotbar, 27 main storage, 4 armor, 1 offhand.
const (
	SlotHotbarStart = 0
	SlotHotbarEnd   = 8
	SlotMainStart   = 9
	SlotMainEnd     = 35
	SlotArmorStart  = 36
	SlotArmorEnd    = 39
	SlotOffhand     = 40
)

const maxStackSize = 64

// NewPlayerAt constructs a world.Player positioned at the world's spawn
// point, ready to enter the play state.
func NewPlayerAt(entityID int32, username string, w *world.World) *world.Player {
	p := world.NewPlayer(entityID, username, OfflineUUID(username))
	p.X = float64(w.SpawnX) + 0.5
	p.Y = float64(w.SpawnY)
	p.Z = float64(w.SpawnZ) + 0.5
	p.OnGround = true
	return p
}
