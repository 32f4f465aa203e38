package world

import "github.com/pico-mc/picocore/pkg/hashrand"

// Generator produces terrain deterministically from a world seed, per the
// exact formulas in spec.md §4.3. Unlike the teacher's Perlin-octave
// generator, every value here is derived from splitmix64/xorshift32 hashes
// of integer coordinates — no floating-point noise fields — so two
// Generators built from the same seed always agree byte-for-byte.
type Generator struct {
	cfg GenConfig

	// anchorCache memoizes per-chunk anchors across calls; anchorAt drops
	// the whole map once it holds more than 64 entries, so it stays small —
	// the chunk-section cache in cache.go is what bounds section memory.
	anchorCache map[[2]int32]Anchor
}

// NewGenerator creates a terrain generator from the given world seed.
func NewGenerator(worldSeed int64) *Generator {
	return &Generator{
		cfg:         DefaultGenConfig(worldSeed),
		anchorCache: make(map[[2]int32]Anchor, 8),
	}
}

// NewGeneratorWithConfig creates a generator with explicit terrain
// parameters (used by tests and by config-driven startup).
func NewGeneratorWithConfig(cfg GenConfig) *Generator {
	return &Generator{cfg: cfg, anchorCache: make(map[[2]int32]Anchor, 8)}
}

func (g *Generator) anchorAt(cx, cz int32) Anchor {
	key := [2]int32{cx, cz}
	if a, ok := g.anchorCache[key]; ok {
		return a
	}
	a := ChunkAnchor(cx, cz, g.cfg)
	if len(g.anchorCache) > 64 {
		// Never meant to grow large: a single BuildSection call only ever
		// touches a handful of neighboring anchors.
		g.anchorCache = make(map[[2]int32]Anchor, 8)
	}
	g.anchorCache[key] = a
	return a
}

// HeightAt returns the interpolated terrain surface height at a world
// column.
func (g *Generator) HeightAt(worldX, worldZ int32) int32 {
	cx := floorDiv(worldX, 16)
	cz := floorDiv(worldZ, 16)
	lx := floorMod(worldX, 16)
	lz := floorMod(worldZ, 16)
	return InterpolatedHeight(cx, cz, lx, lz, g)
}

// isCave reports whether (x,y,z) falls inside the cave band for its
// column (spec.md §4.3): y strictly inside (CaveBaseDepth-gap,
// CaveBaseDepth+gap) where gap = height - TerrainBaseHeight, raised to at
// least 1.
func (g *Generator) isCave(height, y int32) bool {
	gap := height - g.cfg.TerrainBaseHeight
	if gap < 1 {
		gap = 1
	}
	return y < g.cfg.CaveBaseDepth+gap && y > g.cfg.CaveBaseDepth-gap
}

// oreCandidateY derives the single Y per column at which an ore (or a
// miss, yielding stone/lava) may appear: a 6-bit xorshift of the
// chunk-local (rx,rz) index (spec.md §4.3).
func oreCandidateY(rx, rz int32) int32 {
	idx := uint32(rz*16+rx) + 1 // +1 keeps xorshift32's input off the fixed point at 0
	v := hashrand.XorShift32(idx)
	return int32(v & 0x3F)
}

// oreAt resolves the ore (or stone/lava) at the one ore-candidate Y for a
// column, using an 8-bit slice of the anchor hash to select among the ore
// family by Y-band (spec.md §4.3).
func oreAt(anchorHash uint32, y int32) Block {
	slice := byte((anchorHash >> 16) & 0xFF)
	switch {
	case y < 16:
		if slice < 16 {
			return BlockDiamondOre
		}
	case y < 32:
		if slice < 24 {
			return BlockGoldOre
		}
		if slice < 48 {
			return BlockRedstoneOre
		}
	case y < 48:
		if slice < 64 {
			return BlockIronOre
		}
		if slice < 96 {
			return BlockCopperOre
		}
	default:
		if slice < 128 {
			return BlockCoalOre
		}
	}
	if y < 5 {
		return BlockLava
	}
	return BlockStone
}

// treeTopY returns the top Y of a tree feature's oak_log trunk:
// feature.Y - variant + 5.
func treeTopY(featureY byte, variant byte) int32 {
	return int32(featureY) - int32(variant) + 5
}

// BlockAt resolves the single block at (x, y, z) using the precomputed
// anchor and feature of its containing chunk. This is the composite
// per-voxel rule spec.md §4.3 calls terrainAt.
func (g *Generator) BlockAt(x, y, z int32) Block {
	if y < 0 {
		return BlockBedrock
	}
	if y > 255 {
		return BlockAir
	}
	if y == 0 {
		return BlockBedrock
	}

	cx := floorDiv(x, 16)
	cz := floorDiv(z, 16)
	anchor := g.anchorAt(cx, cz)
	feature := ChunkFeatureAt(anchor, g)
	height := g.HeightAt(x, z)

	if feature.Y != FeatureNone && x == feature.X && z == feature.Z {
		if b, ok := g.featureBlockAt(anchor, feature, height, x, y, z); ok {
			return b
		}
	}
	if feature.Y != FeatureNone {
		if b, ok := g.featureCanopyAt(anchor, feature, x, y, z); ok {
			return b
		}
	}

	switch {
	case y > height:
		if anchor.Biome == BiomeSnowyPlains && y == height+1 {
			return BlockSnow
		}
		if y <= g.cfg.SeaLevel {
			if anchor.Biome == BiomeSnowyPlains {
				return BlockIce
			}
			return BlockWater
		}
		return BlockAir
	case y == height:
		return g.surfaceBlock(anchor.Biome, height)
	case y >= height-3:
		return g.fillerBlock(anchor.Biome)
	default:
		rx := floorMod(x, 16)
		rz := floorMod(z, 16)
		if g.isCave(height, y) {
			return BlockAir
		}
		oreY := oreCandidateY(rx, rz)
		if y == oreY {
			return oreAt(anchor.Hash32, y)
		}
		return BlockStone
	}
}

func (g *Generator) surfaceBlock(biome Biome, height int32) Block {
	switch biome {
	case BiomeDesert:
		return BlockSand
	case BiomeSwamp:
		if height < g.cfg.SeaLevel {
			return BlockMud
		}
		return BlockGrassBlock
	case BiomeSnowyPlains:
		return BlockSnowyGrassBlock
	case BiomeBeach:
		return BlockSand
	default:
		return BlockGrassBlock
	}
}

func (g *Generator) fillerBlock(biome Biome) Block {
	switch biome {
	case BiomeDesert, BiomeBeach:
		return BlockSandstone
	case BiomeSwamp:
		return BlockMud
	default:
		return BlockDirt
	}
}

// featureBlockAt resolves the block at the feature's exact (x,z) column,
// for the ground-level decoration that is not part of the leaf canopy
// (trunk base, cactus, lily pad, moss carpet, bush/short grass).
func (g *Generator) featureBlockAt(a Anchor, f ChunkFeature, height int32, x, y, z int32) (Block, bool) {
	switch a.Biome {
	case BiomeDesert:
		// Cactus, 2-3 blocks tall depending on variant parity.
		cactusHeight := int32(2)
		if f.Variant == 1 {
			cactusHeight = 3
		}
		if y > height && y <= height+cactusHeight {
			return BlockCactus, true
		}
	case BiomeSwamp:
		if f.Variant == 0 {
			// Lily pad resting on the water surface.
			if y == g.cfg.SeaLevel && height < g.cfg.SeaLevel {
				return BlockLilyPad, true
			}
		} else {
			if y == height+1 {
				return BlockMossCarpet, true
			}
		}
	case BiomeSnowyPlains:
		if y == height+1 {
			return BlockDeadBush, true
		}
	case BiomeBeach:
		if y == height+1 {
			return BlockDeadBush, true
		}
	default: // plains
		if f.Variant == 1 && y == height+1 {
			return BlockShortGrass, true
		}
		top := treeTopY(f.Y, f.Variant)
		if y > height && y <= top {
			return BlockOakLog, true
		}
	}
	return BlockAir, false
}

// featureCanopyAt resolves the leaf canopy around a tree feature: two
// stacked plus-shaped discs with corner trimming, centered above the
// trunk top (spec.md §4.3). Only plains places trees in this generator's
// feature model.
func (g *Generator) featureCanopyAt(a Anchor, f ChunkFeature, x, y, z int32) (Block, bool) {
	if a.Biome != BiomePlains || f.Variant != 0 {
		return BlockAir, false
	}
	top := treeTopY(f.Y, f.Variant)
	dx := x - f.X
	dz := z - f.Z
	adx, adz := dx, dz
	if adx < 0 {
		adx = -adx
	}
	if adz < 0 {
		adz = -adz
	}
	isCorner := adx == 2 && adz == 2

	for _, disc := range [2]int32{top - 2, top} {
		if y != disc {
			continue
		}
		if adx > 2 || adz > 2 {
			continue
		}
		if isCorner {
			continue // corner trimming: plus-shape discs drop their corners
		}
		return BlockOakLeaves, true
	}
	return BlockAir, false
}
