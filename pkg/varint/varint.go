// Package varint implements the wire-level primitives the Minecraft Java
// Edition protocol builds every packet from: 7-bit little-endian
// continuation-bit VarInts and VarLongs, zig-zag signed variants, and the
// big-endian fixed-width integer/float/string/position helpers layered on
// top of them.
package varint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Error kinds returned by the codec. Callers branch on these with
// errors.Is; they are never matched by string.
var (
	// ErrMalformedVarint is returned when a VarInt/VarLong continuation
	// sequence runs longer than the protocol's maximum byte count.
	ErrMalformedVarint = errors.New("varint: malformed (too long)")
	// ErrShortRead is returned when the underlying reader hits EOF before
	// a full field could be read.
	ErrShortRead = errors.New("varint: short read")
	// ErrOversizedLength is returned when a length-prefixed field (string,
	// packet body) declares a length past its caller-supplied maximum.
	ErrOversizedLength = errors.New("varint: oversized length")
)

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
)

// ReadVarInt reads a 32-bit VarInt from r.
func ReadVarInt(r io.Reader) (int32, error) {
	var result int32
	var numRead int
	var buf [1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, ErrShortRead
			}
			return 0, err
		}
		b := buf[0]
		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > maxVarIntBytes {
			return 0, ErrMalformedVarint
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// WriteVarInt writes a 32-bit VarInt to w.
func WriteVarInt(w io.Writer, value int32) error {
	var buf [maxVarIntBytes]byte
	n := PutVarInt(buf[:], value)
	_, err := w.Write(buf[:n])
	return err
}

// PutVarInt encodes value into buf (which must be at least 5 bytes) and
// returns the number of bytes written.
func PutVarInt(buf []byte, value int32) int {
	uval := uint32(value)
	n := 0
	for {
		if uval&^uint32(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			return n
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// VarIntSize returns the number of bytes PutVarInt would write for value.
func VarIntSize(value int32) int {
	uval := uint32(value)
	size := 1
	for uval&^uint32(0x7F) != 0 {
		size++
		uval >>= 7
	}
	return size
}

// ReadVarLong reads a 64-bit VarLong from r.
func ReadVarLong(r io.Reader) (int64, error) {
	var result int64
	var numRead int
	var buf [1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, ErrShortRead
			}
			return 0, err
		}
		b := buf[0]
		result |= int64(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > maxVarLongBytes {
			return 0, ErrMalformedVarint
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// WriteVarLong writes a 64-bit VarLong to w.
func WriteVarLong(w io.Writer, value int64) error {
	uval := uint64(value)
	var buf [maxVarLongBytes]byte
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			break
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
	_, err := w.Write(buf[:n])
	return err
}

// ZigZag32 encodes a signed 32-bit integer for VarInt transport.
func ZigZag32(v int32) int32 { return (v << 1) ^ (v >> 31) }

// UnZigZag32 decodes a ZigZag32-encoded value.
func UnZigZag32(v int32) int32 { return int32(uint32(v)>>1) ^ -(v & 1) }

// ZigZag64 encodes a signed 64-bit integer for VarLong transport.
func ZigZag64(v int64) int64 { return (v << 1) ^ (v >> 63) }

// UnZigZag64 decodes a ZigZag64-encoded value.
func UnZigZag64(v int64) int64 { return int64(uint64(v)>>1) ^ -(v & 1) }

// ReadString reads a VarInt-length-prefixed UTF-8 string. If the declared
// length exceeds maxLen, the tail past maxLen bytes is read and discarded
// (so the stream stays in sync) and ErrOversizedLength is returned.
func ReadString(r io.Reader, maxLen int32) (string, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("varint: negative string length %d", length)
	}
	if length > maxLen {
		// Drain the tail so framing stays aligned for the caller, then
		// report the error.
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return "", ErrShortRead
		}
		return "", ErrOversizedLength
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrShortRead
	}
	return string(buf), nil
}

// WriteString writes a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	b := []byte(s)
	if err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrShortRead
	}
	return buf[0], nil
}

func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadInt8(r io.Reader) (int8, error) {
	v, err := ReadUint8(r)
	return int8(v), err
}

func WriteInt8(w io.Writer, v int8) error {
	return WriteUint8(w, uint8(v))
}

func ReadBool(r io.Reader) (bool, error) {
	v, err := ReadUint8(r)
	return v != 0, err
}

func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteUint8(w, 1)
	}
	return WriteUint8(w, 0)
}

func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func WriteFloat32(w io.Writer, v float32) error {
	return WriteUint32(w, math.Float32bits(v))
}

func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func WriteFloat64(w io.Writer, v float64) error {
	return WriteUint64(w, math.Float64bits(v))
}

// posCoordMask and posYMask mirror spec.md's position
// packing: ((x & 0x3FFFFFF) << 38) | ((z & 0x3FFFFFF) << 12) | (y & 0xFFF).
const (
	posCoordMask = 0x3FFFFFF // 26 bits
	posYMask     = 0xFFF     // 12 bits
)

// PackPosition packs a block position into the 8-byte wire form.
func PackPosition(x int32, y int32, z int32) uint64 {
	return (uint64(uint32(x)&posCoordMask) << 38) |
		(uint64(uint32(z)&posCoordMask) << 12) |
		uint64(uint32(y)&posYMask)
}

// UnpackPosition reverses PackPosition, sign-extending x/z from 26 bits and
// y from 12 bits.
func UnpackPosition(v uint64) (x, y, z int32) {
	x = signExtend(int32((v>>38)&posCoordMask), 26)
	z = signExtend(int32((v>>12)&posCoordMask), 26)
	y = signExtend(int32(v&posYMask), 12)
	return
}

func signExtend(v int32, bits uint) int32 {
	shift := 32 - bits
	return (v << shift) >> shift
}

// ReadPosition reads a packed position.
func ReadPosition(r io.Reader) (x, y, z int32, err error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = UnpackPosition(v)
	return
}

// WritePosition writes a packed position.
func WritePosition(w io.Writer, x, y, z int32) error {
	return WriteUint64(w, PackPosition(x, y, z))
}
