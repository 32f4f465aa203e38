package protocol

import (
	"bytes"

	"github.com/pico-mc/picocore/pkg/varint"
)

// Configuration-state packet IDs (spec.md §4.7 "configuration").
const (
	RegistryDataPacketID               = 0x07 // clientbound, one per registry
	FinishConfigurationPacketID        = 0x02 // clientbound
	AcknowledgeFinishConfigPacketID    = 0x03 // serverbound
	ClientInformationPacketID          = 0x00 // serverbound
)

// RegistryEntry is one opaque, pre-extracted registry blob (tags,
// dimension types, biomes, ...) loaded by the external build step (spec.md
// §6 "Registry data") and transmitted verbatim.
type RegistryEntry struct {
	RegistryID string
	Payload    []byte // already-encoded entries for this registry, passed through untouched
}

// EncodeRegistryData builds one clientbound registry-data packet from a
// pre-loaded, opaque registry entry. picocore never parses the Minecraft
// jar itself (spec.md §6); pkg/registry is the loader, this is just the
// framing.
func EncodeRegistryData(entry RegistryEntry) *Packet {
	return MarshalPacket(RegistryDataPacketID, func(w *bytes.Buffer) {
		varint.WriteString(w, entry.RegistryID)
		w.Write(entry.Payload)
	})
}

// EncodeFinishConfiguration builds the clientbound signal that the server
// has no more configuration packets to send.
func EncodeFinishConfiguration() *Packet {
	return MarshalPacket(FinishConfigurationPacketID, func(w *bytes.Buffer) {})
}

// DecodeAcknowledgeFinishConfiguration has an empty body; this exists so
// callers have a symmetric name alongside Encode, even though there is
// nothing to parse.
func DecodeAcknowledgeFinishConfiguration(data []byte) error {
	return nil
}

// ClientInformation is the serverbound settings packet sent in both
// configuration and play (locale, view distance, chat mode, skin parts,
// main hand). picocore only consumes ViewDistance (spec.md §4.8 step 5).
type ClientInformation struct {
	Locale      string
	ViewDistance int8
	ChatMode    int32
	ChatColors  bool
	SkinParts   uint8
	MainHand    int32
}

const maxLocaleLen = 16

// DecodeClientInformation parses the client-information packet body.
func DecodeClientInformation(data []byte) (ClientInformation, error) {
	r := bytes.NewReader(data)
	var ci ClientInformation
	var err error

	if ci.Locale, err = varint.ReadString(r, maxLocaleLen); err != nil {
		return ClientInformation{}, err
	}
	if ci.ViewDistance, err = varint.ReadInt8(r); err != nil {
		return ClientInformation{}, err
	}
	if ci.ChatMode, err = varint.ReadVarInt(r); err != nil {
		return ClientInformation{}, err
	}
	if ci.ChatColors, err = varint.ReadBool(r); err != nil {
		return ClientInformation{}, err
	}
	skinParts, err := varint.ReadUint8(r)
	if err != nil {
		return ClientInformation{}, err
	}
	ci.SkinParts = skinParts
	if ci.MainHand, err = varint.ReadVarInt(r); err != nil {
		return ClientInformation{}, err
	}
	return ci, nil
}
