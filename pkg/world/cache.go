package world

import "github.com/pico-mc/picocore/pkg/hashrand"

// MaxProbe bounds how many slots an insert or lookup will scan from a key's
// hashed home slot (spec.md §4.4). A valid entry must always be found
// within this many steps of its home, or it is evicted rather than left
// unreachable.
const MaxProbe = 32

// DefaultCacheCapacity is the default slot count, sized for roughly 16 MB
// of cached section bytes (4096 bytes/section, spec.md §4.4).
const DefaultCacheCapacity = 4096

type cacheSlotState uint8

const (
	slotEmpty cacheSlotState = iota
	slotValid
)

type cacheSlot struct {
	state       cacheSlotState
	cx, cy, cz  int32
	biome       Biome
	lruTimestamp uint64
	section     Section
}

// SectionCache is an open-addressed, fixed-capacity, bounded-probe LRU
// cache of chunk sections keyed by (cx, cy, cz) (spec.md §4.4). It is a
// process-wide singleton in picocore's Server, mutated only from the main
// loop (spec.md §5) — there is no internal locking.
type SectionCache struct {
	slots    []cacheSlot
	capacity uint32
	clock    uint64
}

// NewSectionCache creates a cache with the given slot capacity. A capacity
// of 0 uses DefaultCacheCapacity.
func NewSectionCache(capacity int) *SectionCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &SectionCache{
		slots:    make([]cacheSlot, capacity),
		capacity: uint32(capacity),
	}
}

func (c *SectionCache) home(cx, cy, cz int32) uint32 {
	h := hashrand.HashSection(cx, cy, cz, 0)
	return h % c.capacity
}

// Get looks up a cached section. Per spec.md §4.4, any empty slot
// encountered inside the probe window means the entry is not present —
// entries are never inserted outside the window their home hashes to, so
// a gap can't hide a valid entry further along.
func (c *SectionCache) Get(cx, cy, cz int32) (Section, Biome, bool) {
	home := c.home(cx, cy, cz)
	probe := MaxProbe
	if uint32(probe) > c.capacity {
		probe = int(c.capacity)
	}
	for i := 0; i < probe; i++ {
		idx := (home + uint32(i)) % c.capacity
		slot := &c.slots[idx]
		if slot.state == slotEmpty {
			return Section{}, 0, false
		}
		if slot.cx == cx && slot.cy == cy && slot.cz == cz {
			c.clock++
			slot.lruTimestamp = c.clock
			return slot.section, slot.biome, true
		}
	}
	return Section{}, 0, false
}

// Put inserts or overwrites a cached section. It reuses an existing entry
// for the same key, falls into the first empty slot in the probe window,
// or evicts the oldest (by lruTimestamp) slot within that window — it
// never installs an entry the corresponding Get couldn't find again.
func (c *SectionCache) Put(cx, cy, cz int32, biome Biome, sec Section) {
	home := c.home(cx, cy, cz)
	probe := MaxProbe
	if uint32(probe) > c.capacity {
		probe = int(c.capacity)
	}

	victim := -1
	var oldestAge uint64

	for i := 0; i < probe; i++ {
		idx := int((home + uint32(i)) % c.capacity)
		slot := &c.slots[idx]
		if slot.state == slotEmpty {
			c.install(idx, cx, cy, cz, biome, sec)
			return
		}
		if slot.cx == cx && slot.cy == cy && slot.cz == cz {
			c.install(idx, cx, cy, cz, biome, sec)
			return
		}
		age := c.clock - slot.lruTimestamp
		if victim == -1 || age > oldestAge {
			victim = idx
			oldestAge = age
		}
	}
	// No empty slot in the window: evict the eldest entry found.
	c.install(victim, cx, cy, cz, biome, sec)
}

func (c *SectionCache) install(idx int, cx, cy, cz int32, biome Biome, sec Section) {
	c.clock++
	c.slots[idx] = cacheSlot{
		state:        slotValid,
		cx:           cx,
		cy:           cy,
		cz:           cz,
		biome:        biome,
		lruTimestamp: c.clock,
		section:      sec,
	}
}

// Invalidate clears the cache entry for the section containing world
// position (x, y, z), if present.
func (c *SectionCache) Invalidate(x, y, z int32) {
	cx := floorDiv(x, 16)
	cy := floorDiv(y, 16)
	cz := floorDiv(z, 16)

	home := c.home(cx, cy, cz)
	probe := MaxProbe
	if uint32(probe) > c.capacity {
		probe = int(c.capacity)
	}
	for i := 0; i < probe; i++ {
		idx := (home + uint32(i)) % c.capacity
		slot := &c.slots[idx]
		if slot.state == slotEmpty {
			return
		}
		if slot.cx == cx && slot.cy == cy && slot.cz == cz {
			*slot = cacheSlot{}
			return
		}
	}
}

// Clear empties every slot.
func (c *SectionCache) Clear() {
	for i := range c.slots {
		c.slots[i] = cacheSlot{}
	}
	c.clock = 0
}
