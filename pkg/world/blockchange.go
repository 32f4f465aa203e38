package world

import (
	"errors"
	"sort"
)

// MaxBlockChanges bounds the number of live block-change entries the index
// will hold before refusing further writes (spec.md §4.5, §9). Worlds in
// picocore are generated, not stored, so unbounded player edits would grow
// memory without limit; this caps that.
const MaxBlockChanges = 65536

// ErrBlockChangeFull is returned by Set when the index is at capacity and
// compaction could not free a slot. The caller (pkg/session) disconnects
// the offending player with a WorldFull reason rather than let the
// overlay grow past its bound (spec.md §9).
var ErrBlockChangeFull = errors.New("world: block-change index is full")

type blockChangeEntry struct {
	x, y, z   int32
	block     Block
	tombstone bool
}

// lessEntry orders entries by (x, z, y), the sort key BlockChangeIndex
// maintains throughout (spec.md §4.5) so RangeSection can binary-search
// the X span of a section instead of scanning every entry.
func lessEntry(a, b blockChangeEntry) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	if a.z != b.z {
		return a.z < b.z
	}
	return a.y < b.y
}

// BlockChangeIndex is a sorted, fixed-capacity overlay of player-caused
// block edits on top of generated terrain (spec.md §4.5). It is kept
// sorted by (x, z, y) at all times; lookups binary-search, inserts and
// deletes shift the backing slice, and soft-deleted (tombstoned) entries
// are reclaimed by Compact rather than shifted out immediately.
type BlockChangeIndex struct {
	entries   []blockChangeEntry
	capacity  int
	liveCount int
}

// NewBlockChangeIndex creates an index with the given capacity. A
// capacity of 0 uses MaxBlockChanges.
func NewBlockChangeIndex(capacity int) *BlockChangeIndex {
	if capacity <= 0 {
		capacity = MaxBlockChanges
	}
	return &BlockChangeIndex{capacity: capacity}
}

// search returns the index of the entry matching (x,y,z) if present (ok
// true), or the insertion point that keeps entries sorted (ok false).
func (idx *BlockChangeIndex) search(x, y, z int32) (pos int, ok bool) {
	key := blockChangeEntry{x: x, y: y, z: z}
	i := sort.Search(len(idx.entries), func(i int) bool {
		return !lessEntry(idx.entries[i], key)
	})
	if i < len(idx.entries) && idx.entries[i].x == x && idx.entries[i].y == y && idx.entries[i].z == z {
		return i, true
	}
	return i, false
}

// Lookup returns the current block at (x,y,z), if a live change exists.
func (idx *BlockChangeIndex) Lookup(x, y, z int32) (Block, bool) {
	pos, ok := idx.search(x, y, z)
	if !ok || idx.entries[pos].tombstone {
		return 0, false
	}
	return idx.entries[pos].block, true
}

// Set records a block change at (x,y,z), overwriting any existing live or
// tombstoned entry at that position. If the index is full and no existing
// entry matches, it tries Compact once to reclaim tombstoned slots before
// giving up with ErrBlockChangeFull. Setting the BlockNone sentinel deletes
// and compacts instead of inserting a live entry (spec.md §4.5), since
// BlockNone must never appear as a real block id.
func (idx *BlockChangeIndex) Set(x, y, z int32, b Block) error {
	if b == BlockNone {
		idx.Delete(x, y, z)
		idx.Compact()
		return nil
	}

	pos, ok := idx.search(x, y, z)
	if ok {
		if idx.entries[pos].tombstone {
			idx.liveCount++
		}
		idx.entries[pos].block = b
		idx.entries[pos].tombstone = false
		return nil
	}

	if len(idx.entries) >= idx.capacity {
		idx.Compact()
		pos, ok = idx.search(x, y, z)
		if ok {
			idx.entries[pos].block = b
			idx.entries[pos].tombstone = false
			idx.liveCount++
			return nil
		}
		if len(idx.entries) >= idx.capacity {
			return ErrBlockChangeFull
		}
	}

	entry := blockChangeEntry{x: x, y: y, z: z, block: b}
	idx.entries = append(idx.entries, blockChangeEntry{})
	copy(idx.entries[pos+1:], idx.entries[pos:])
	idx.entries[pos] = entry
	idx.liveCount++
	return nil
}

// Delete soft-deletes the entry at (x,y,z) if present, returning whether
// a live entry was removed. The slot is tombstoned in place (no shift);
// Compact later reclaims it.
func (idx *BlockChangeIndex) Delete(x, y, z int32) bool {
	pos, ok := idx.search(x, y, z)
	if !ok || idx.entries[pos].tombstone {
		return false
	}
	idx.entries[pos].tombstone = true
	idx.liveCount--
	return true
}

// Compact physically removes tombstoned entries, restoring the backing
// slice to exactly its live entries while preserving sort order.
func (idx *BlockChangeIndex) Compact() {
	if idx.liveCount == len(idx.entries) {
		return
	}
	out := idx.entries[:0]
	for _, e := range idx.entries {
		if e.tombstone {
			continue
		}
		out = append(out, e)
	}
	idx.entries = out
}

// All calls fn for every live entry in ascending (x,z,y) order, used by
// pkg/persist to serialize the full overlay on save.
func (idx *BlockChangeIndex) All(fn func(x, y, z int32, b Block)) {
	for _, e := range idx.entries {
		if e.tombstone {
			continue
		}
		fn(e.x, e.y, e.z, e.block)
	}
}

// Len returns the number of live (non-tombstoned) entries.
func (idx *BlockChangeIndex) Len() int {
	return idx.liveCount
}

// RangeSection calls fn for every live entry whose position falls within
// the 16x16x16 section based at (baseX, baseY, baseZ), in ascending
// (x,z,y) order. It binary-searches the X span so a section overlay scan
// never touches entries outside its own 16-block X range.
func (idx *BlockChangeIndex) RangeSection(baseX, baseY, baseZ int32, fn func(x, y, z int32, b Block)) {
	maxX := baseX + 15
	lo := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].x >= baseX
	})
	for i := lo; i < len(idx.entries) && idx.entries[i].x <= maxX; i++ {
		e := idx.entries[i]
		if e.tombstone {
			continue
		}
		if e.y < baseY || e.y > baseY+15 {
			continue
		}
		if e.z < baseZ || e.z > baseZ+15 {
			continue
		}
		fn(e.x, e.y, e.z, e.block)
	}
}
