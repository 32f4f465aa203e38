package session

import (
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/world"
)

// handleConfigurationState waits for the client to acknowledge the
// registry data/finish-configuration already queued by the login handler,
// capturing client settings (view distance) along the way, then enters
// play (spec.md §4.7 "configuration").
func (s *Session) handleConfigurationState(w *world.World, pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.ClientInformationPacketID:
		ci, err := protocol.DecodeClientInformation(pkt.Data)
		if err != nil {
			return err
		}
		s.Player.ViewDistance = int32(ci.ViewDistance)
		return nil

	case protocol.AcknowledgeFinishConfigPacketID:
		if err := protocol.DecodeAcknowledgeFinishConfiguration(pkt.Data); err != nil {
			return err
		}
		s.Player.State = world.StatePlay
		return s.enterPlay(w)

	default:
		// Spec.md §4.7: unknown configuration-state packets (plugin
		// messages, resource pack responses picocore never requested)
		// are read-and-discarded.
		return nil
	}
}
