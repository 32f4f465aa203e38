package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorBlockAtDeterministic(t *testing.T) {
	g1 := NewGenerator(12345)
	g2 := NewGenerator(12345)

	for _, col := range [][2]int32{{0, 0}, {100, -50}, {-200, 37}} {
		for y := int32(0); y < 80; y += 5 {
			require.Equal(t, g1.BlockAt(col[0], y, col[1]), g2.BlockAt(col[0], y, col[1]))
		}
	}
}

func TestGeneratorBlockAtDiffersAcrossSeeds(t *testing.T) {
	g1 := NewGenerator(1)
	g2 := NewGenerator(2)

	differs := false
	for x := int32(0); x < 64; x++ {
		if g1.HeightAt(x, 0) != g2.HeightAt(x, 0) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "expected different seeds to produce different terrain")
}

func TestGeneratorBedrockFloorAndVoidCeiling(t *testing.T) {
	g := NewGenerator(1)
	assert.Equal(t, Block(BlockBedrock), g.BlockAt(0, 0, 0))
	assert.Equal(t, Block(BlockBedrock), g.BlockAt(5, -1, 5))
	assert.Equal(t, Block(BlockAir), g.BlockAt(5, 256, 5))
}

func TestGeneratorNegativeCoordinatesDoNotPanic(t *testing.T) {
	g := NewGenerator(99)
	assert.NotPanics(t, func() {
		for x := int32(-40); x < -20; x++ {
			for z := int32(-40); z < -20; z++ {
				g.BlockAt(x, 64, z)
			}
		}
	})
}

func TestGeneratorAboveSurfaceIsNeverStone(t *testing.T) {
	g := NewGenerator(5)
	h := g.HeightAt(0, 0)
	// Above the surface it must never be solid stone/ore.
	b := g.BlockAt(0, h+5, 0)
	assert.NotEqual(t, Block(BlockStone), b)
}

func TestIsCaveBandWidensWithHeightGap(t *testing.T) {
	g := NewGenerator(1)
	narrow := g.isCave(g.cfg.TerrainBaseHeight, g.cfg.CaveBaseDepth)
	assert.True(t, narrow)

	outside := g.isCave(g.cfg.TerrainBaseHeight, g.cfg.CaveBaseDepth+1000)
	assert.False(t, outside)
}

func TestOreCandidateYDeterministicPerColumn(t *testing.T) {
	a := oreCandidateY(3, 9)
	b := oreCandidateY(3, 9)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, int32(0))
	assert.Less(t, a, int32(64))
}

func TestOreAtLavaBelowFive(t *testing.T) {
	// With a slice value guaranteed to miss every ore band, y<5 must fall
	// back to lava.
	got := oreAt(0xFFFF0000, 2)
	assert.Equal(t, Block(BlockLava), got)
}

func TestTreeTopYFormula(t *testing.T) {
	assert.Equal(t, int32(10), treeTopY(10, 5))
}
