package protocol

import (
	"bytes"

	"github.com/pico-mc/picocore/pkg/varint"
)

// Handshake-state packet IDs (spec.md §4.7 "handshake").
const (
	// HandshakePacketID is the single serverbound handshake packet.
	HandshakePacketID = 0x00
)

// NextState values a handshake packet may request.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)

const maxHandshakeAddrLen = 255

// Handshake is the lone handshake-state packet: protocol version, the
// address/port the client dialed (informational only), and the requested
// next state. Grounded on the teacher's handleHandshake, extended with the
// address/port fields the teacher discards but §4.7 still requires be
// framed correctly so later bytes stay aligned.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

// DecodeHandshake parses the handshake packet body.
func DecodeHandshake(data []byte) (Handshake, error) {
	r := bytes.NewReader(data)
	var h Handshake
	var err error

	if h.ProtocolVersion, err = varint.ReadVarInt(r); err != nil {
		return Handshake{}, err
	}
	if h.ServerAddress, err = varint.ReadString(r, maxHandshakeAddrLen); err != nil {
		return Handshake{}, err
	}
	if h.ServerPort, err = varint.ReadUint16(r); err != nil {
		return Handshake{}, err
	}
	if h.NextState, err = varint.ReadVarInt(r); err != nil {
		return Handshake{}, err
	}
	return h, nil
}
