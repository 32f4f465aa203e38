package gameplay

import (
	"testing"

	"github.com/pico-mc/picocore/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockToItemIDRoundTrips(t *testing.T) {
	id := BlockToItemID(world.BlockStone)
	b, ok := ItemIDToBlock(id)

	require.True(t, ok)
	assert.Equal(t, world.BlockStone, b)
}

func TestItemIDToBlockRejectsNonBlockItems(t *testing.T) {
	_, ok := ItemIDToBlock(ItemStick)
	assert.False(t, ok)
}

func TestMatchRecipeFindsPlanksFromLog(t *testing.T) {
	grid := []uint16{BlockToItemID(world.BlockOakLog)}

	r, ok := MatchRecipe(grid, 1, 1)

	require.True(t, ok)
	assert.Equal(t, ItemOakPlanks, r.ResultItemID)
	assert.Equal(t, byte(4), r.ResultCount)
}

func TestMatchRecipeFindsPatternAnywhereInLargerGrid(t *testing.T) {
	grid := []uint16{
		0, 0,
		0, BlockToItemID(world.BlockOakLog),
	}

	r, ok := MatchRecipe(grid, 2, 2)

	require.True(t, ok)
	assert.Equal(t, ItemOakPlanks, r.ResultItemID)
}

func TestMatchRecipeSticksFromTwoPlanks(t *testing.T) {
	grid := []uint16{ItemOakPlanks, ItemOakPlanks}

	r, ok := MatchRecipe(grid, 1, 2)

	require.True(t, ok)
	assert.Equal(t, ItemStick, r.ResultItemID)
}

func TestMatchRecipeReturnsFalseForEmptyGrid(t *testing.T) {
	grid := []uint16{0, 0, 0, 0}

	_, ok := MatchRecipe(grid, 2, 2)

	assert.False(t, ok)
}

func TestMatchRecipeReturnsFalseForUnknownPattern(t *testing.T) {
	grid := []uint16{BlockToItemID(world.BlockDirt)}

	_, ok := MatchRecipe(grid, 1, 1)

	assert.False(t, ok)
}
