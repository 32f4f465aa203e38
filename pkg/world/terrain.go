package world

import (
	"math"

	"github.com/pico-mc/picocore/pkg/hashrand"
)

// GenConfig carries the §6 terrain knobs a Generator needs. Zero-value
// fields are invalid; use DefaultGenConfig for sane defaults.
type GenConfig struct {
	Seed             uint32
	TerrainBaseHeight int32
	CaveBaseDepth     int32
	BiomeSize         int32
	BiomeRadius       int32
	SeaLevel          int32
}

// DefaultGenConfig returns the default terrain parameters.
func DefaultGenConfig(worldSeed int64) GenConfig {
	seed := uint32(hashrand.SplitMix64(hashrand.SplitMix64(uint64(worldSeed))))
	return GenConfig{
		Seed:              seed,
		TerrainBaseHeight: 64,
		CaveBaseDepth:     32,
		BiomeSize:         8,
		BiomeRadius:       3,
		SeaLevel:          63,
	}
}

// Anchor is the per-chunk record everything else in this package derives
// from: {cx, cz, hash32, biome} (spec.md §3).
type Anchor struct {
	CX, CZ int32
	Hash32  uint32
	Biome   Biome
}

// ChunkAnchor computes the anchor for a chunk coordinate.
func ChunkAnchor(cx, cz int32, cfg GenConfig) Anchor {
	return Anchor{
		CX:     cx,
		CZ:     cz,
		Hash32: hashrand.HashChunk(cx, cz, cfg.Seed),
		Biome:  BiomeAt(cx, cz, cfg.Seed, cfg.BiomeSize, cfg.BiomeRadius),
	}
}

// FeatureNone is the Y sentinel meaning "no feature this chunk."
const FeatureNone byte = 0xFF

// ChunkFeature is the optional per-chunk decoration (§3): X/Z are the
// world-absolute column, Y is the placement height (FeatureNone if there
// is none this chunk), and Variant selects among biome-specific shapes.
type ChunkFeature struct {
	X, Z    int32
	Y       byte
	Variant byte
}

// edgeMargin is how close to a chunk boundary a feature may not be placed,
// except in swamps (spec.md §4.3: "skipped if too close to a chunk edge
// except in swamps").
const edgeMargin = 2

// ChunkFeatureAt derives a chunk's feature from its anchor hash and the
// interpolated terrain height at the feature's column.
func ChunkFeatureAt(a Anchor, g *Generator) ChunkFeature {
	lo := a.Hash32 % 256
	lx := int32(lo % 16)
	lz := int32(lo / 16)

	tooCloseToEdge := lx < edgeMargin || lx > 15-edgeMargin || lz < edgeMargin || lz > 15-edgeMargin
	if tooCloseToEdge && a.Biome != BiomeSwamp {
		return ChunkFeature{Y: FeatureNone}
	}

	worldX := a.CX*16 + lx
	worldZ := a.CZ*16 + lz
	h := g.HeightAt(worldX, worldZ)
	y := h + 1
	if y < 0 || y > 254 {
		return ChunkFeature{Y: FeatureNone}
	}

	variant := byte((a.Hash32 >> uint(lx+lz)) & 1)
	return ChunkFeature{X: worldX, Z: worldZ, Y: byte(y), Variant: variant}
}

// CornerHeight computes the per-biome corner-height offset from the anchor
// hash. These formulas are this world's identity: every implementation of
// picocore must reproduce them bit-for-bit so the same seed always yields
// the same world (spec.md §4.3).
func CornerHeight(hash uint32, biome Biome, cfg GenConfig) int32 {
	pick2 := func(shift uint) int32 { return int32((hash >> shift) & 3) }
	pick3 := func(shift uint) int32 { return int32((hash >> shift) & 7) }

	switch biome {
	case BiomePlains:
		delta := pick2(0) + pick2(2) + pick2(4) + pick2(6)
		return cfg.TerrainBaseHeight + delta
	case BiomeDesert:
		delta := 4 + pick2(8) + pick2(10)
		return cfg.TerrainBaseHeight + delta
	case BiomeSwamp:
		delta := pick2(12) + pick2(14) + pick2(16) + pick2(18)
		h := cfg.TerrainBaseHeight + delta
		if h < cfg.SeaLevel {
			h -= 3
		}
		return h
	case BiomeSnowyPlains:
		delta := pick3(20) + pick3(23)
		return cfg.TerrainBaseHeight + delta
	case BiomeBeach:
		delta := pick2(26) + pick2(28) + pick2(30)
		return 62 - delta
	default:
		return cfg.TerrainBaseHeight
	}
}

// cornerHeightAt computes the corner height at a chunk coordinate, using
// that corner's own anchor and biome.
func cornerHeightAt(cx, cz int32, g *Generator) int32 {
	a := g.anchorAt(cx, cz)
	return CornerHeight(a.Hash32, a.Biome, g.cfg)
}

// InterpolatedHeight bilinearly interpolates the four chunk corners
// surrounding a world column, in the containing chunk's local coordinates
// (0..15). When the query point sits exactly on a corner (local 0,0), a
// peak-sharpening rule subtracts 1 when that corner's height exceeds 67
// (spec.md §4.3).
func InterpolatedHeight(cx, cz int32, localX, localZ int32, g *Generator) int32 {
	h00 := cornerHeightAt(cx, cz, g)
	h10 := cornerHeightAt(cx+1, cz, g)
	h01 := cornerHeightAt(cx, cz+1, g)
	h11 := cornerHeightAt(cx+1, cz+1, g)

	if localX == 0 && localZ == 0 {
		if h00 > 67 {
			return h00 - 1
		}
		return h00
	}

	fx := float64(localX) / 16.0
	fz := float64(localZ) / 16.0
	top := float64(h00)*(1-fx) + float64(h10)*fx
	bot := float64(h01)*(1-fx) + float64(h11)*fx
	return int32(math.Round(top*(1-fz) + bot*fz))
}
