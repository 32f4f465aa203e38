package protocol

import (
	"bytes"
	"io"

	"github.com/pico-mc/picocore/pkg/varint"
)

// Login-state packet IDs (spec.md §4.7 "login").
const (
	LoginStartPacketID   = 0x00 // serverbound
	LoginSuccessPacketID = 0x02 // clientbound
)

const maxUsernameLen = 16

// LoginStart is the serverbound login packet: username plus the client's
// proposed UUID (spec.md §3: "Receive login start (username, uuid)").
// picocore is offline-mode only (no crypto handshake — spec.md §1
// Non-goals), so the client-sent UUID is read to stay framed correctly but
// the session derives its own canonical offline UUID from the username
// (pkg/gameplay.OfflineUUID) rather than trusting this field.
type LoginStart struct {
	Username string
	UUID     [16]byte
}

// DecodeLoginStart parses the login-start packet body.
func DecodeLoginStart(data []byte) (LoginStart, error) {
	r := bytes.NewReader(data)
	var ls LoginStart
	var err error
	if ls.Username, err = varint.ReadString(r, maxUsernameLen); err != nil {
		return LoginStart{}, err
	}
	if _, err = io.ReadFull(r, ls.UUID[:]); err != nil {
		return LoginStart{}, varint.ErrShortRead
	}
	return ls, nil
}

// EncodeLoginSuccess builds the clientbound login-success packet: uuid,
// username, and an empty property array (no signed textures — offline
// mode never has any to send).
func EncodeLoginSuccess(uuid [16]byte, username string) *Packet {
	return MarshalPacket(LoginSuccessPacketID, func(w *bytes.Buffer) {
		w.Write(uuid[:])
		varint.WriteString(w, username)
		varint.WriteVarInt(w, 0) // number of properties
	})
}
