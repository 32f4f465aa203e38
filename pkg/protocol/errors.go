package protocol

import "errors"

// Sentinel errors for the framing and codec layer (spec.md §7). Callers in
// pkg/session use these to decide fatal-vs-discardable outcomes: a codec
// error on a known packet ID is fatal (session moves to closing); an
// unknown packet ID is not an error at all, just a read-and-discard.
var (
	// ErrPacketTooSmall is returned when a packet's declared length is
	// less than the minimum one byte (its own packet ID varint).
	ErrPacketTooSmall = errors.New("protocol: packet length too small")
	// ErrPacketTooLarge is returned when a packet's declared length
	// exceeds MaxPacketLength.
	ErrPacketTooLarge = errors.New("protocol: packet length too large")
	// ErrNetworkTimeout is returned when recv/send makes no progress for
	// longer than NetworkTimeout (spec.md §5 "Cancellation/timeout").
	ErrNetworkTimeout = errors.New("protocol: network timeout")
	// ErrUnexpectedPacket is returned by a state's dispatcher when a
	// known packet ID arrives in a state that cannot handle it.
	ErrUnexpectedPacket = errors.New("protocol: unexpected packet for current state")
)
