package session

import (
	"github.com/pico-mc/picocore/pkg/gameplay"
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/world"
)

// handleLoginState decodes login-start, derives the canonical offline
// UUID, registers the player in the world, and replies with login-success
// before moving to configuration (spec.md §4.7 "login"). picocore never
// implements the cryptographic online-mode handshake (spec.md §1
// Non-goals), so this is the entire login state.
func (s *Session) handleLoginState(w *world.World, pkt *protocol.Packet) error {
	if pkt.ID != protocol.LoginStartPacketID {
		return protocol.ErrUnexpectedPacket
	}
	ls, err := protocol.DecodeLoginStart(pkt.Data)
	if err != nil {
		return err
	}

	uuid := gameplay.OfflineUUID(ls.Username)
	s.Player.Username = ls.Username
	s.Player.UUID = uuid
	s.Player.EntityID = w.NextEntityID()
	w.Players[s.Player.EntityID] = s.Player
	s.Player.State = world.StateConfiguration

	if err := s.Stream.QueuePacket(protocol.EncodeLoginSuccess(uuid, ls.Username)); err != nil {
		return err
	}

	return s.sendConfigurationData()
}

// sendConfigurationData queues every registry-data packet followed by
// finish-configuration; picocore has no resource pack or known-pack
// negotiation to interleave (spec.md §1 Non-goals).
func (s *Session) sendConfigurationData() error {
	for _, entry := range s.Info.Registries {
		pkt := protocol.EncodeRegistryData(protocol.RegistryEntry{
			RegistryID: entry.ID,
			Payload:    entry.Payload,
		})
		if err := s.Stream.QueuePacket(pkt); err != nil {
			return err
		}
	}
	if err := s.Stream.QueuePacket(protocol.EncodeFinishConfiguration()); err != nil {
		return err
	}
	return s.Stream.Flush()
}
