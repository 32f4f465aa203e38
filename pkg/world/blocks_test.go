package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeverBakedTorchAlwaysExcluded(t *testing.T) {
	assert.True(t, NeverBaked(BlockTorch, false))
	assert.True(t, NeverBaked(BlockTorch, true))
}

func TestNeverBakedChestDependsOnFlag(t *testing.T) {
	assert.True(t, NeverBaked(BlockChest, true))
	assert.False(t, NeverBaked(BlockChest, false))
}

func TestNeverBakedOrdinaryBlockNeverExcluded(t *testing.T) {
	assert.False(t, NeverBaked(BlockStone, true))
	assert.False(t, NeverBaked(BlockAir, false))
}
