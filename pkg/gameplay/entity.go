package gameplay

import (
	"math"

	"github.com/pico-mc/picocore/pkg/world"
)

const (
	mobWidth  = 0.6
	mobHeight = 1.8
	gravity   = 0.04
	dragAir   = 0.98
)

const (
	mobChaseRange   = 10.0
	mobAttackRange  = 1.5
	mobWanderChance = 0.02 // fraction of ticks a wandering mob picks a new heading
	mobSpeed        = 0.1
)

// SpawnMob creates a new mob entity of the given kind at a position,
// registers it in the world and returns it. Grounded on the teacher's
// MobEntity construction in entity.go, collapsed from its separate
// ItemEntity/MobEntity types to the single world.Entity record spec.md §3
// describes (picocore has no item-drop entities, so only the mob half of
// the teacher's entity model survives).
func SpawnMob(w *world.World, kind world.EntityKind, x, y, z float64) *world.Entity {
	e := &world.Entity{
		ID:     w.NextEntityID(),
		Kind:   kind,
		X:      x,
		Y:      y,
		Z:      z,
		Health: 10,
	}
	w.Entities[e.ID] = e
	return e
}

// collides reports whether an axis-aligned box centered at (x,z) spanning
// [y, y+height] with the given horizontal width overlaps any solid block.
// Grounded on the teacher's checkEntityCollision, generalized from a
// numeric-ID-range test to world.IsSolid.
func collides(w *world.World, x, y, z, width, height float64) bool {
	minX := int32(math.Floor(x - width/2))
	maxX := int32(math.Floor(x + width/2))
	minY := int32(math.Floor(y))
	maxY := int32(math.Floor(y + height))
	minZ := int32(math.Floor(z - width/2))
	maxZ := int32(math.Floor(z + width/2))

	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			for bz := minZ; bz <= maxZ; bz++ {
				if world.IsSolid(w.BlockAt(bx, by, bz)) {
					return true
				}
			}
		}
	}
	return false
}

// nearestPlayer returns the nearest living, non-spectator player within
// range of (x,y,z), or nil if none is in range.
func nearestPlayer(w *world.World, x, y, z, rangeLimit float64) *world.Player {
	var best *world.Player
	bestDist := rangeLimit * rangeLimit
	for _, p := range w.Players {
		if p.State != world.StatePlay || p.IsDead || p.GameMode == GameModeSpectator {
			continue
		}
		dx, dy, dz := p.X-x, p.Y-y, p.Z-z
		d := dx*dx + dy*dy + dz*dz
		if d <= bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// stepAI sets a mob's horizontal velocity for this tick: chase the
// nearest player within range, attacking on contact, else wander.
// Grounded on the teacher's AIFunc hook (entity_test.go's TestMobEntityAIHook
// shows the shape), with the concrete chase-or-wander policy this is the
// only AI behavior SUPPLEMENTED FEATURES calls for.
func stepAI(w *world.World, e *world.Entity, tickHash uint32, ev *Events) {
	if target := nearestPlayer(w, e.X, e.Y, e.Z, mobChaseRange); target != nil {
		dx := target.X - e.X
		dz := target.Z - e.Z
		dist := math.Sqrt(dx*dx + dz*dz)
		e.TargetEID = target.EntityID
		if dist <= mobAttackRange {
			e.VX, e.VZ = 0, 0
			ApplyDamage(target, 1.0, ev)
			return
		}
		if dist > 0 {
			e.VX = (dx / dist) * mobSpeed
			e.VZ = (dz / dist) * mobSpeed
			e.Yaw = float32(math.Atan2(-dx, dz) * 180 / math.Pi)
		}
		return
	}
	e.TargetEID = 0
	if tickHash%1000 < uint32(mobWanderChance*1000) {
		angle := float64(tickHash%360) * math.Pi / 180
		e.VX = math.Cos(angle) * mobSpeed * 0.5
		e.VZ = math.Sin(angle) * mobSpeed * 0.5
	}
}

// TickEntities advances one physics/AI step for every mob: AI decision,
// gravity, per-axis collision resolution. Players move themselves via
// client-sent position packets and are not touched here. Grounded on the
// teacher's tickEntityPhysics, trimmed to the mob half (no item-entity
// bounce/friction model — picocore has no item-drop entities) and adapted
// from a sync.Mutex-guarded map scan to direct single-loop iteration.
func TickEntities(w *world.World, tickHash uint32, ev *Events) {
	for _, e := range w.Entities {
		stepAI(w, e, tickHash, ev)

		e.VY -= gravity

		if !collides(w, e.X+e.VX, e.Y, e.Z, mobWidth, mobHeight) {
			e.X += e.VX
		} else {
			e.VX = 0
		}

		onGround := false
		if !collides(w, e.X, e.Y+e.VY, e.Z, mobWidth, mobHeight) {
			e.Y += e.VY
		} else {
			if e.VY < 0 {
				e.Y = math.Floor(e.Y)
				onGround = true
			}
			e.VY = 0
		}

		if !collides(w, e.X, e.Y, e.Z+e.VZ, mobWidth, mobHeight) {
			e.Z += e.VZ
		} else {
			e.VZ = 0
		}

		e.VX *= dragAir
		e.VZ *= dragAir

		if e.VX != 0 || e.VY != 0 || e.VZ != 0 {
			ev.Move(e.ID, e.X, e.Y, e.Z, e.Yaw, e.Pitch, onGround)
		}
	}
}
