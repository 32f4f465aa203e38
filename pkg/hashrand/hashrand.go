// Package hashrand provides the deterministic hashing and fast PRNG
// primitives the terrain generator and chunk cache build on: splitmix64 for
// seed mixing and coordinate hashing, xorshift32 for cheap per-call
// randomness that does not need cryptographic quality or a carried state.
package hashrand

// SplitMix64 mixes x into a well-distributed 64-bit value using the
// standard splitmix64 constants. It is the sole seed/hash primitive the
// terrain generator uses, so its exact constants are load-bearing: any
// deviation changes every generated chunk.
func SplitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// XorShift32 advances a 32-bit xorshift state by one step.
func XorShift32(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// PackCoord packs (cx, cz, seed) into the little-endian 8-byte layout
// splitmix64 expects: cx and cz as i16, seed as u32.
func PackCoord(cx, cz int16, seed uint32) uint64 {
	return uint64(uint16(cx)) |
		uint64(uint16(cz))<<16 |
		uint64(seed)<<32
}

// HashChunk returns the 32-bit anchor hash for a chunk coordinate under a
// world seed: splitmix64(pack(cx, cz, seed)) truncated to 32 bits.
func HashChunk(cx, cz int32, seed uint32) uint32 {
	packed := PackCoord(int16(cx), int16(cz), seed)
	return uint32(SplitMix64(packed))
}

// HashSection extends HashChunk with a Y coordinate, for per-section
// cache-key hashing; it folds cy into the packed value before mixing so
// sections at different heights of the same column hash independently.
func HashSection(cx, cy, cz int32, seed uint32) uint32 {
	packed := PackCoord(int16(cx), int16(cz), seed) ^ (uint64(uint16(cy)) << 48)
	return uint32(SplitMix64(packed))
}
