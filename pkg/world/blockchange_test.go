package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockChangeIndexSetAndLookup(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	require.NoError(t, idx.Set(1, 2, 3, BlockStone))

	got, ok := idx.Lookup(1, 2, 3)
	require.True(t, ok)
	assert.Equal(t, BlockStone, got)

	_, ok = idx.Lookup(4, 5, 6)
	assert.False(t, ok)
}

func TestBlockChangeIndexSetOverwritesExisting(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	require.NoError(t, idx.Set(1, 1, 1, BlockStone))
	require.NoError(t, idx.Set(1, 1, 1, BlockDiamondBlock))

	got, ok := idx.Lookup(1, 1, 1)
	require.True(t, ok)
	assert.Equal(t, BlockDiamondBlock, got)
	assert.Equal(t, 1, idx.Len())
}

func TestBlockChangeIndexMaintainsSortedOrder(t *testing.T) {
	idx := NewBlockChangeIndex(64)
	coords := [][3]int32{
		{5, 0, 5}, {1, 0, 9}, {5, 0, 1}, {1, 0, 1}, {5, 0, 3},
	}
	for _, c := range coords {
		require.NoError(t, idx.Set(c[0], c[1], c[2], BlockStone))
	}

	for i := 1; i < len(idx.entries); i++ {
		assert.True(t, lessEntry(idx.entries[i-1], idx.entries[i]) || idx.entries[i-1] == idx.entries[i],
			"entries must stay sorted by (x,z,y): %v before %v", idx.entries[i-1], idx.entries[i])
	}
}

func TestBlockChangeIndexDeleteIsTombstonedThenCompacted(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	require.NoError(t, idx.Set(1, 1, 1, BlockStone))
	require.NoError(t, idx.Set(2, 2, 2, BlockDirt))

	assert.True(t, idx.Delete(1, 1, 1))
	_, ok := idx.Lookup(1, 1, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len())
	// Before compaction the tombstoned slot still occupies backing space.
	assert.Len(t, idx.entries, 2)

	idx.Compact()
	assert.Len(t, idx.entries, 1)
	got, ok := idx.Lookup(2, 2, 2)
	require.True(t, ok)
	assert.Equal(t, BlockDirt, got)
}

func TestBlockChangeIndexSetBlockNoneDeletesAndCompacts(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	require.NoError(t, idx.Set(1, 1, 1, BlockStone))
	require.NoError(t, idx.Set(2, 2, 2, BlockDirt))

	require.NoError(t, idx.Set(1, 1, 1, BlockNone))

	_, ok := idx.Lookup(1, 1, 1)
	assert.False(t, ok, "setting BlockNone must not leave a live entry reading back as block id 255")
	assert.Equal(t, 1, idx.Len())
	assert.Len(t, idx.entries, 1, "BlockNone should compact the tombstone away immediately")

	got, ok := idx.Lookup(2, 2, 2)
	require.True(t, ok)
	assert.Equal(t, BlockDirt, got)
}

func TestBlockChangeIndexSetBlockNoneOnMissingEntryIsNoop(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	require.NoError(t, idx.Set(9, 9, 9, BlockNone))

	_, ok := idx.Lookup(9, 9, 9)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestBlockChangeIndexDeleteMissingReturnsFalse(t *testing.T) {
	idx := NewBlockChangeIndex(16)
	assert.False(t, idx.Delete(9, 9, 9))
}

func TestBlockChangeIndexFullReturnsErrorAfterCompactFails(t *testing.T) {
	idx := NewBlockChangeIndex(2)
	require.NoError(t, idx.Set(0, 0, 0, BlockStone))
	require.NoError(t, idx.Set(1, 0, 0, BlockStone))

	err := idx.Set(2, 0, 0, BlockStone)
	assert.ErrorIs(t, err, ErrBlockChangeFull)
}

func TestBlockChangeIndexCompactFreesSlotForFutureSet(t *testing.T) {
	idx := NewBlockChangeIndex(2)
	require.NoError(t, idx.Set(0, 0, 0, BlockStone))
	require.NoError(t, idx.Set(1, 0, 0, BlockStone))
	require.True(t, idx.Delete(0, 0, 0))

	// Capacity is still saturated by the tombstone, but Set should compact
	// internally and succeed.
	require.NoError(t, idx.Set(2, 0, 0, BlockDirt))

	got, ok := idx.Lookup(2, 0, 0)
	require.True(t, ok)
	assert.Equal(t, BlockDirt, got)
	_, ok = idx.Lookup(0, 0, 0)
	assert.False(t, ok)
}

func TestBlockChangeIndexRangeSectionOnlyReturnsEntriesInBounds(t *testing.T) {
	idx := NewBlockChangeIndex(64)
	require.NoError(t, idx.Set(0, 0, 0, BlockStone))    // inside section (0,0,0)
	require.NoError(t, idx.Set(15, 15, 15, BlockDirt))  // inside section (0,0,0)
	require.NoError(t, idx.Set(16, 0, 0, BlockSand))    // outside (next section over on X)
	require.NoError(t, idx.Set(0, 16, 0, BlockGravel))  // outside (next section up on Y)
	require.NoError(t, idx.Set(-1, 0, 0, BlockBedrock)) // outside (negative X)

	seen := map[[3]int32]Block{}
	idx.RangeSection(0, 0, 0, func(x, y, z int32, b Block) {
		seen[[3]int32{x, y, z}] = b
	})

	assert.Len(t, seen, 2)
	assert.Equal(t, BlockStone, seen[[3]int32{0, 0, 0}])
	assert.Equal(t, BlockDirt, seen[[3]int32{15, 15, 15}])
}

func TestBlockChangeIndexRangeSectionSkipsTombstones(t *testing.T) {
	idx := NewBlockChangeIndex(64)
	require.NoError(t, idx.Set(1, 1, 1, BlockStone))
	require.True(t, idx.Delete(1, 1, 1))

	calls := 0
	idx.RangeSection(0, 0, 0, func(x, y, z int32, b Block) { calls++ })
	assert.Equal(t, 0, calls)
}

func TestBlockChangeIndexRangeSectionNegativeCoordinates(t *testing.T) {
	idx := NewBlockChangeIndex(64)
	require.NoError(t, idx.Set(-5, -10, -3, BlockStone))

	calls := 0
	idx.RangeSection(-16, -16, -16, func(x, y, z int32, b Block) {
		calls++
		assert.Equal(t, int32(-5), x)
		assert.Equal(t, int32(-10), y)
		assert.Equal(t, int32(-3), z)
	})
	assert.Equal(t, 1, calls)
}
