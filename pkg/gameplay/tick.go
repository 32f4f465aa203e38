package gameplay

import "github.com/pico-mc/picocore/pkg/world"

// TimeBroadcastIntervalTicks is the "coarser cadence" spec.md §4.8 step 2
// leaves unspecified; broadcasting every second (20 ticks at the nominal
// 20 Hz tick rate) keeps clients' displayed time close to day_time_ticks
// without a time packet on every tick.
const TimeBroadcastIntervalTicks = 20

// ChunkDiff is one player's view-distance window change for a tick: newly
// visible columns to send and previously visible columns to drop.
// Grounded on the teacher's sendChunkUpdates (chunk.go), which recomputes
// a player's loaded-chunk set whenever it crosses a chunk boundary; here
// expressed as a pure diff the caller applies by sending/forgetting
// columns, rather than the teacher's direct per-player channel send.
type ChunkDiff struct {
	PlayerID int32
	Entered  [][2]int32
	Dropped  [][2]int32
}

func floorDiv16(v int32) int32 {
	if v >= 0 {
		return v / 16
	}
	return (v-15)/16
}

// ComputeChunkWindows recomputes every player's view-distance chunk
// window against their last-known loaded set, returning only the players
// whose window actually changed, and updates Player.LoadedChunks in
// place to match.
func ComputeChunkWindows(w *world.World) []ChunkDiff {
	var diffs []ChunkDiff
	for _, p := range w.Players {
		if p.State != world.StatePlay {
			continue
		}
		diff := computePlayerWindow(p)
		if len(diff.Entered) > 0 || len(diff.Dropped) > 0 {
			diffs = append(diffs, diff)
		}
	}
	return diffs
}

func computePlayerWindow(p *world.Player) ChunkDiff {
	cx := floorDiv16(int32(p.X))
	cz := floorDiv16(int32(p.Z))
	vd := p.ViewDistance
	if vd <= 0 {
		vd = 1
	}

	desired := make(map[[2]int32]bool, (2*vd+1)*(2*vd+1))
	diff := ChunkDiff{PlayerID: p.EntityID}

	for x := cx - vd; x <= cx+vd; x++ {
		for z := cz - vd; z <= cz+vd; z++ {
			pos := [2]int32{x, z}
			desired[pos] = true
			if !p.LoadedChunks[pos] {
				diff.Entered = append(diff.Entered, pos)
			}
		}
	}
	for pos := range p.LoadedChunks {
		if !desired[pos] {
			diff.Dropped = append(diff.Dropped, pos)
		}
	}

	p.LoadedChunks = desired
	return diff
}

// TickWorld advances world time, fluid flow and mob AI/physics by one
// tick, and returns the per-player chunk-window diffs for this tick.
// Inbound-packet processing (§4.8 step 1) and write-buffer flushing
// (step 6) are transport-facing and live in the session/server layer
// that calls this function once per tick.
func TickWorld(w *world.World, doFluidFlow bool, recentEdits []BlockChangeEvent, ev *Events) []ChunkDiff {
	w.TickCounter++
	w.DayTimeTicks++

	if doFluidFlow && len(recentEdits) > 0 {
		TickFluids(w, recentEdits, ev)
	}
	TickEntities(w, uint32(w.TickCounter), ev)

	return ComputeChunkWindows(w)
}

// ShouldBroadcastTime reports whether this tick falls on the time
// broadcast cadence.
func ShouldBroadcastTime(w *world.World) bool {
	return w.TickCounter%TimeBroadcastIntervalTicks == 0
}
