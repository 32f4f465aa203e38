package gameplay

import (
	"math"

	"github.com/pico-mc/picocore/pkg/world"
)

// Entity status byte values carried on the clientbound Entity Status
// packet (protocol.EncodeEntityStatus, sent by pkg/mcserver), unchanged in
// meaning from the teacher's broadcastEntityStatus call sites.
const (
	StatusHurt byte = 2
	StatusDead byte = 3
)

const meleeDamage = float32(2.0) // one heart, unchanged from the teacher's fixed hit damage
const meleeKnockback = 0.4
const meleeReach = 4.0 // blocks, picocore has no separate creative-reach distinction

// Attack resolves one player-on-player melee hit: reach check, damage,
// knockback, recorded as Events for the caller to flush to clients.
// Grounded on the teacher's handleAttack/applyDamage pair in combat.go,
// adapted from sync.Mutex-guarded Player fields to direct single-loop
// field access (spec.md §5/§9).
func Attack(attacker, target *world.Player, ev *Events) {
	if attacker.GameMode == GameModeSpectator {
		return
	}
	if target.IsDead || target.GameMode == GameModeCreative || target.GameMode == GameModeSpectator {
		return
	}
	dx := target.X - attacker.X
	dz := target.Z - attacker.Z
	dy := target.Y - attacker.Y
	if dx*dx+dy*dy+dz*dz > meleeReach*meleeReach {
		return
	}

	dead := ApplyDamage(target, meleeDamage, ev)
	if dead {
		return
	}

	dist := math.Sqrt(dx*dx + dz*dz)
	if dist > 0 {
		vx := (dx / dist) * meleeKnockback
		vz := (dz / dist) * meleeKnockback
		ev.Velocity(target.EntityID, vx, meleeKnockback, vz)
	}
}

// ApplyDamage reduces target's health, marking it dead at or below zero,
// and records the hurt/death status events. Returns whether the target
// died from this call. Grounded on the teacher's applyDamage.
func ApplyDamage(target *world.Player, damage float32, ev *Events) bool {
	if target.IsDead || target.GameMode == GameModeCreative || target.GameMode == GameModeSpectator {
		return false
	}

	target.Health -= damage
	if target.Health <= 0 {
		target.Health = 0
		target.IsDead = true
	}

	ev.Status(target.EntityID, StatusHurt)
	if target.IsDead {
		ev.Status(target.EntityID, StatusDead)
		ev.Chat(target.Username+" was slain", "red")
		ev.Deaths = append(ev.Deaths, target.EntityID)
	}
	return target.IsDead
}

// Respawn resets a dead player to full health at the world spawn point.
// Grounded on the teacher's handleRespawn, trimmed to the fields picocore
// tracks (no separate dimension/difficulty packets here; the session
// layer resends a full LoginPlay-equivalent state sync on respawn).
func Respawn(p *world.Player, w *world.World) {
	if !p.IsDead {
		return
	}
	p.Health = 20
	p.IsDead = false
	p.X = float64(w.SpawnX) + 0.5
	p.Y = float64(w.SpawnY)
	p.Z = float64(w.SpawnZ) + 0.5
	p.OnGround = true
}
