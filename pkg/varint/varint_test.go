package varint

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2097151, math.MaxInt32, math.MinInt32, -128}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if buf.Len() != VarIntSize(v) {
			t.Fatalf("VarIntSize(%d) = %d, encoded %d bytes", v, VarIntSize(v), buf.Len())
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestVarIntSizeMinimumOneByte(t *testing.T) {
	if VarIntSize(0) != 1 {
		t.Fatalf("VarIntSize(0) = %d, want 1", VarIntSize(0))
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 1 << 40}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d): %v", v, err)
		}
		got, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("ReadVarLong(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
		}
	}
}

func TestReadVarIntMalformedPastFiveBytes(t *testing.T) {
	// Six bytes each with the continuation bit set and no terminator, one
	// past the five-byte VarInt maximum.
	buf := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	_, err := ReadVarInt(buf)
	if !errors.Is(err, ErrMalformedVarint) {
		t.Fatalf("expected ErrMalformedVarint, got %v", err)
	}
}

func TestReadVarIntShortRead(t *testing.T) {
	buf := bytes.NewReader([]byte{0x80}) // continuation bit set, then EOF
	_, err := ReadVarInt(buf)
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648} {
		if got := UnZigZag32(ZigZag32(v)); got != v {
			t.Fatalf("zigzag32 mismatch: %d -> %d -> %d", v, ZigZag32(v), got)
		}
	}
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		if got := UnZigZag64(ZigZag64(v)); got != v {
			t.Fatalf("zigzag64 mismatch: %d -> %d -> %d", v, ZigZag64(v), got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "hello, picocore"); err != nil {
		t.Fatal(err)
	}
	got, err := ReadString(&buf, 32767)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, picocore" {
		t.Fatalf("got %q", got)
	}
}

func TestStringOversizedLengthDrainsTail(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "this string is too long for the limit"); err != nil {
		t.Fatal(err)
	}
	buf.WriteByte(0xAB) // sentinel byte after the string, must remain untouched

	_, err := ReadString(&buf, 4)
	if !errors.Is(err, ErrOversizedLength) {
		t.Fatalf("expected ErrOversizedLength, got %v", err)
	}
	// the tail was drained, so only the sentinel byte remains
	rest, _ := io.ReadAll(&buf)
	if len(rest) != 1 || rest[0] != 0xAB {
		t.Fatalf("expected only sentinel byte left, got %v", rest)
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	WriteUint16(&buf, 0xBEEF)
	WriteInt32(&buf, -123456)
	WriteUint64(&buf, 0xDEADBEEFCAFEBABE)
	WriteFloat32(&buf, 3.25)
	WriteFloat64(&buf, -1.5)
	WriteBool(&buf, true)

	u16, _ := ReadUint16(&buf)
	i32, _ := ReadInt32(&buf)
	u64, _ := ReadUint64(&buf)
	f32, _ := ReadFloat32(&buf)
	f64, _ := ReadFloat64(&buf)
	b, _ := ReadBool(&buf)

	if u16 != 0xBEEF || i32 != -123456 || u64 != 0xDEADBEEFCAFEBABE || f32 != 3.25 || f64 != -1.5 || !b {
		t.Fatalf("fixed width round trip mismatch: %x %d %x %v %v %v", u16, i32, u64, f32, f64, b)
	}
}

func TestPositionPackRoundTrip(t *testing.T) {
	cases := [][3]int32{
		{0, 0, 0},
		{33554431, 2047, 33554431},   // max positive 26/12/26
		{-33554432, -2048, -33554432}, // min negative 26/12/26
		{-1, -1, -1},
		{100, 64, -100},
	}
	for _, c := range cases {
		packed := PackPosition(c[0], c[1], c[2])
		x, y, z := UnpackPosition(packed)
		if x != c[0] || y != c[1] || z != c[2] {
			t.Fatalf("position round trip mismatch: in=%v out=(%d,%d,%d)", c, x, y, z)
		}
	}
}

func TestPositionWireRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePosition(&buf, 1000, 64, -2000); err != nil {
		t.Fatal(err)
	}
	x, y, z, err := ReadPosition(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if x != 1000 || y != 64 || z != -2000 {
		t.Fatalf("got (%d,%d,%d)", x, y, z)
	}
}
