package session

import (
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/world"
)

// handleHandshakeState decodes the lone handshake packet and moves the
// session to status or login per its requested next_state. Grounded on
// the teacher's handleHandshake, generalized from an (int, error) return
// the caller switches on to setting Player.State directly.
func (s *Session) handleHandshakeState(pkt *protocol.Packet) error {
	if pkt.ID != protocol.HandshakePacketID {
		return protocol.ErrUnexpectedPacket
	}
	h, err := protocol.DecodeHandshake(pkt.Data)
	if err != nil {
		return err
	}
	s.Player.ProtocolVersion = h.ProtocolVersion

	switch h.NextState {
	case protocol.NextStateStatus:
		s.Player.State = world.StateStatus
	case protocol.NextStateLogin:
		s.Player.State = world.StateLogin
	default:
		return protocol.ErrUnexpectedPacket
	}
	return nil
}
