package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/pico-mc/picocore/pkg/varint"
)

// Status-state packet IDs (spec.md §4.7 "status").
const (
	StatusRequestPacketID  = 0x00 // serverbound, empty body
	StatusResponsePacketID = 0x00 // clientbound
	PingRequestPacketID    = 0x01 // serverbound
	PongResponsePacketID   = 0x01 // clientbound
)

// StatusVersion and StatusPlayers mirror the JSON shape vanilla clients
// expect in a status response (grounded on the teacher's
// handleStatusRequest map[string]interface{} literal, given a named type
// here since picocore's registry-driven MOTD/player-count need a stable
// shape to build against).
type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type StatusPlayers struct {
	Max    int           `json:"max"`
	Online int           `json:"online"`
	Sample []StatusSample `json:"sample"`
}

type StatusSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type StatusDescription struct {
	Text string `json:"text"`
}

// StatusResponse is the full JSON status document.
type StatusResponse struct {
	Version     StatusVersion      `json:"version"`
	Players     StatusPlayers      `json:"players"`
	Description StatusDescription  `json:"description"`
}

// EncodeStatusResponse builds the clientbound status-response packet.
func EncodeStatusResponse(resp StatusResponse) (*Packet, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return MarshalPacket(StatusResponsePacketID, func(w *bytes.Buffer) {
		varint.WriteString(w, string(body))
	}), nil
}

// DecodePingRequest reads the 8-byte ping payload to echo back.
func DecodePingRequest(data []byte) (int64, error) {
	return varint.ReadInt64(bytes.NewReader(data))
}

// EncodePongResponse builds the clientbound pong, echoing payload.
func EncodePongResponse(payload int64) *Packet {
	return MarshalPacket(PongResponsePacketID, func(w *bytes.Buffer) {
		varint.WriteInt64(w, payload)
	})
}
