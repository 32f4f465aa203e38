package session

import (
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/world"
)

// handleStatusState answers the status-request/ping pair (spec.md §4.7
// "status"). Grounded on the teacher's handleStatusRequest; the client is
// expected to close the connection itself after the pong, so this never
// marks the session closing on its own.
func (s *Session) handleStatusState(w *world.World, pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.StatusRequestPacketID:
		online := 0
		for _, p := range w.Players {
			if p.State == world.StatePlay {
				online++
			}
		}
		resp := protocol.StatusResponse{
			Version: protocol.StatusVersion{
				Name:     s.Info.ProtocolName,
				Protocol: s.Info.ProtocolVersion,
			},
			Players: protocol.StatusPlayers{
				Max:    s.Info.MaxPlayers,
				Online: online,
			},
			Description: protocol.StatusDescription{Text: s.Info.MOTD},
		}
		out, err := protocol.EncodeStatusResponse(resp)
		if err != nil {
			return err
		}
		return s.Stream.QueuePacket(out)

	case protocol.PingRequestPacketID:
		payload, err := protocol.DecodePingRequest(pkt.Data)
		if err != nil {
			return err
		}
		return s.Stream.QueuePacket(protocol.EncodePongResponse(payload))

	default:
		// Spec.md §4.7: "an unknown ID is read-and-discarded" — the
		// packet's bytes are already fully buffered, so there is
		// nothing left to do.
		return nil
	}
}
