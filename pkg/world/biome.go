package world

// Biome identifies one of the five terrain regions spec.md §3 names.
// Picocore has no separate biome hash table (§4.3): the biome at a chunk
// is derived directly from a slice of the 32-bit world seed.
type Biome byte

const (
	BiomePlains Biome = iota
	BiomeDesert
	BiomeSwamp
	BiomeSnowyPlains
	BiomeBeach
)

func (b Biome) String() string {
	switch b {
	case BiomePlains:
		return "plains"
	case BiomeDesert:
		return "desert"
	case BiomeSwamp:
		return "swamp"
	case BiomeSnowyPlains:
		return "snowy_plains"
	case BiomeBeach:
		return "beach"
	default:
		return "unknown"
	}
}

// floorDiv divides a by b with floor semantics (negative-safe), the way
// world coordinates are divided down into chunk coordinates throughout
// this package.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the complementary floor-divide remainder, always in [0, b).
func floorMod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// tileBiome selects the base biome (plains/desert/swamp/snowy_plains) for
// a biome-grid tile from a 2-bit slice of the world seed: four biomes
// tiled from a 32-bit pattern, index = (biomeX & 3) + ((biomeZ*4) & 15),
// exactly per spec.md §4.3 — no per-tile hash, just a seed bit lookup.
func tileBiome(biomeX, biomeZ int32, seed uint32) Biome {
	index := (biomeX & 3) + ((biomeZ * 4) & 15)
	bits := (seed >> uint(2*index)) & 3
	switch bits {
	case 0:
		return BiomePlains
	case 1:
		return BiomeDesert
	case 2:
		return BiomeSwamp
	default:
		return BiomeSnowyPlains
	}
}

// BiomeAt returns the biome for a chunk coordinate. Biomes tile a grid of
// biomeSize x biomeSize chunks; each tile's biome forms a disk of radius
// biomeRadius around the tile center, with "beach" filling the corners
// outside the disk (spec.md §4.3).
func BiomeAt(cx, cz int32, seed uint32, biomeSize, biomeRadius int32) Biome {
	biomeX := floorDiv(cx, biomeSize)
	biomeZ := floorDiv(cz, biomeSize)

	localX := floorMod(cx, biomeSize)
	localZ := floorMod(cz, biomeSize)
	center := biomeSize / 2

	dx := localX - center
	dz := localZ - center
	dist2 := dx*dx + dz*dz
	if dist2 > biomeRadius*biomeRadius {
		return BiomeBeach
	}
	return tileBiome(biomeX, biomeZ, seed)
}
