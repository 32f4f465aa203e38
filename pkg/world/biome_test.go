package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDivNegativeSafe(t *testing.T) {
	cases := []struct{ a, b, want int32 }{
		{15, 16, 0},
		{-1, 16, -1},
		{-16, 16, -1},
		{-17, 16, -2},
		{16, 16, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, floorDiv(c.a, c.b), "floorDiv(%d,%d)", c.a, c.b)
	}
}

func TestFloorModAlwaysNonNegative(t *testing.T) {
	for a := int32(-40); a <= 40; a++ {
		m := floorMod(a, 16)
		assert.True(t, m >= 0 && m < 16, "floorMod(%d,16)=%d out of range", a, m)
	}
}

func TestBiomeAtCenterTileIsNotBeach(t *testing.T) {
	const seed = uint32(0xABCD1234)
	const size, radius = int32(8), int32(3)

	// The tile center itself always lies within the disc (distance 0).
	b := BiomeAt(4, 4, seed, size, radius)
	assert.NotEqual(t, BiomeBeach, b)
}

func TestBiomeAtCornersAreBeach(t *testing.T) {
	const seed = uint32(0xABCD1234)
	const size, radius = int32(8), int32(2)
	// Tile-local (0,0) is maximally far from the center in an 8x8 tile.
	b := BiomeAt(0, 0, seed, size, radius)
	assert.Equal(t, BiomeBeach, b)
}

func TestBiomeAtDeterministic(t *testing.T) {
	const seed = uint32(777)
	a := BiomeAt(12, -5, seed, 8, 3)
	b := BiomeAt(12, -5, seed, 8, 3)
	assert.Equal(t, a, b)
}

func TestBiomeStringKnownValues(t *testing.T) {
	assert.Equal(t, "plains", BiomePlains.String())
	assert.Equal(t, "desert", BiomeDesert.String())
	assert.Equal(t, "swamp", BiomeSwamp.String())
	assert.Equal(t, "snowy_plains", BiomeSnowyPlains.String())
	assert.Equal(t, "beach", BiomeBeach.String())
}
