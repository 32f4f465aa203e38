package hashrand

import "testing"

func TestSplitMix64KnownValue(t *testing.T) {
	// splitmix64(0) must equal the constant-mix result for the all-zero
	// seed; locked here so a future refactor of the constants is caught.
	got := SplitMix64(0)
	want := uint64(0xe220a8397b1dcdaf)
	if got != want {
		t.Fatalf("SplitMix64(0) = %#x, want %#x", got, want)
	}
}

func TestSplitMix64Deterministic(t *testing.T) {
	for _, x := range []uint64{0, 1, 42, 0xA103DE6C, ^uint64(0)} {
		a := SplitMix64(x)
		b := SplitMix64(x)
		if a != b {
			t.Fatalf("SplitMix64(%d) not deterministic: %d vs %d", x, a, b)
		}
	}
}

func TestHashChunkDeterministic(t *testing.T) {
	h1 := HashChunk(0, 0, 12345)
	h2 := HashChunk(0, 0, 12345)
	if h1 != h2 {
		t.Fatalf("HashChunk not deterministic: %d vs %d", h1, h2)
	}
	if HashChunk(1, 0, 12345) == h1 {
		t.Fatalf("HashChunk should differ across coordinates")
	}
}

func TestHashChunkNegativeCoords(t *testing.T) {
	// Negative chunk coordinates must pack through PackCoord without
	// panicking and hash deterministically.
	h1 := HashChunk(-16, -16, 999)
	h2 := HashChunk(-16, -16, 999)
	if h1 != h2 {
		t.Fatalf("HashChunk(-16,-16) not deterministic: %d vs %d", h1, h2)
	}
}

func TestXorShift32NeverSticksAtZero(t *testing.T) {
	x := uint32(1)
	for i := 0; i < 1000; i++ {
		x = XorShift32(x)
		if x == 0 {
			t.Fatalf("xorshift32 degenerated to 0 after %d iterations", i)
		}
	}
}
