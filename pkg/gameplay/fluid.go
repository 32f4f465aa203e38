package gameplay

import "github.com/pico-mc/picocore/pkg/world"

// MaxFluidUpdatesPerTick bounds how many new fluid blocks a single
// TickFluids call may place, keeping the tick's cost proportional to
// recent edits rather than the world's total fluid surface area.
const MaxFluidUpdatesPerTick = 64

var fluidSpreadOffsets = [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// TickFluids spreads water and lava outward from source blocks adjacent
// to the positions in edits, breadth-first, bounded by
// MaxFluidUpdatesPerTick. A fluid only spreads into an air cell directly
// below or horizontally beside a source, matching the "active-fluid
// cells adjacent to recent block changes" tick rule; it never spreads
// into a cell already holding a block. Grounded on the teacher's
// per-tick block-physics passes (tickEntityPhysics' shape: gather
// candidates, apply a bounded number of updates, emit events) with no
// direct fluid-specific teacher file to adapt from, since the retrieval
// pack's teacher never implemented liquid spread.
func TickFluids(w *world.World, edits []BlockChangeEvent, ev *Events) {
	type cell struct{ x, y, z int32 }
	queue := make([]cell, 0, len(edits))
	seen := make(map[cell]bool, len(edits))

	for _, e := range edits {
		c := cell{e.X, e.Y, e.Z}
		if !seen[c] {
			seen[c] = true
			queue = append(queue, c)
		}
	}

	updates := 0
	for len(queue) > 0 && updates < MaxFluidUpdatesPerTick {
		c := queue[0]
		queue = queue[1:]

		source := w.BlockAt(c.x, c.y, c.z)
		if source != world.BlockWater && source != world.BlockLava {
			continue
		}

		below := cell{c.x, c.y - 1, c.z}
		if updates < MaxFluidUpdatesPerTick && w.BlockAt(below.x, below.y, below.z) == world.BlockAir {
			if err := w.SetBlock(below.x, below.y, below.z, source); err == nil {
				ev.BlockChange(below.x, below.y, below.z, source)
				updates++
				if !seen[below] {
					seen[below] = true
					queue = append(queue, below)
				}
			}
		}

		for _, off := range fluidSpreadOffsets {
			if updates >= MaxFluidUpdatesPerTick {
				break
			}
			n := cell{c.x + off[0], c.y, c.z + off[1]}
			if w.BlockAt(n.x, n.y, n.z) != world.BlockAir {
				continue
			}
			// Only spread sideways when there is solid ground beneath,
			// otherwise the downward branch above already claimed it.
			if w.BlockAt(n.x, n.y-1, n.z) == world.BlockAir {
				continue
			}
			if err := w.SetBlock(n.x, n.y, n.z, source); err == nil {
				ev.BlockChange(n.x, n.y, n.z, source)
				updates++
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
}
