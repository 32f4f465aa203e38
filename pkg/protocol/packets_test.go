package protocol

import (
	"bytes"
	"testing"

	"github.com/pico-mc/picocore/pkg/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHandshakeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&buf, 772))
	require.NoError(t, varint.WriteString(&buf, "localhost"))
	require.NoError(t, varint.WriteUint16(&buf, 25565))
	require.NoError(t, varint.WriteVarInt(&buf, NextStateLogin))

	h, err := DecodeHandshake(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int32(772), h.ProtocolVersion)
	assert.Equal(t, "localhost", h.ServerAddress)
	assert.Equal(t, uint16(25565), h.ServerPort)
	assert.Equal(t, NextStateLogin, h.NextState)
}

func TestEncodeStatusResponseProducesValidPacket(t *testing.T) {
	pkt, err := EncodeStatusResponse(StatusResponse{
		Version:     StatusVersion{Name: "1.21.8", Protocol: 772},
		Players:     StatusPlayers{Max: 20, Online: 1},
		Description: StatusDescription{Text: "a picocore server"},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(StatusResponsePacketID), pkt.ID)

	s, err := varint.ReadString(bytes.NewReader(pkt.Data), 1<<16)
	require.NoError(t, err)
	assert.Contains(t, s, "1.21.8")
	assert.Contains(t, s, "picocore server")
}

func TestPingPongEchoesPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteInt64(&buf, 123456789))

	payload, err := DecodePingRequest(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), payload)

	pong := EncodePongResponse(payload)
	got, err := DecodePingRequest(pong.Data)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), got)
}

func TestDecodeLoginStartRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteString(&buf, "Steve"))
	buf.Write(make([]byte, 16))

	ls, err := DecodeLoginStart(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Steve", ls.Username)
}

func TestEncodeLoginSuccessContainsUsername(t *testing.T) {
	var uuid [16]byte
	uuid[0] = 0xAB
	pkt := EncodeLoginSuccess(uuid, "Steve")
	assert.Equal(t, int32(LoginSuccessPacketID), pkt.ID)
	assert.True(t, bytes.HasPrefix(pkt.Data, uuid[:]))
	assert.True(t, bytes.Contains(pkt.Data, []byte("Steve")))
}

func TestDecodeClientInformationRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteString(&buf, "en_us"))
	require.NoError(t, varint.WriteInt8(&buf, 10))
	require.NoError(t, varint.WriteVarInt(&buf, 0))
	require.NoError(t, varint.WriteBool(&buf, true))
	require.NoError(t, varint.WriteUint8(&buf, 0x7F))
	require.NoError(t, varint.WriteVarInt(&buf, 1))

	ci, err := DecodeClientInformation(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "en_us", ci.Locale)
	assert.Equal(t, int8(10), ci.ViewDistance)
}

func TestMovementPacketDecodersRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteFloat64(&buf, 1.5))
	require.NoError(t, varint.WriteFloat64(&buf, 64.0))
	require.NoError(t, varint.WriteFloat64(&buf, -2.25))
	require.NoError(t, varint.WriteBool(&buf, true))

	m, err := DecodeSetPlayerPosition(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1.5, m.X)
	assert.Equal(t, 64.0, m.Y)
	assert.Equal(t, -2.25, m.Z)
	assert.True(t, m.OnGround)
}

func TestDecodePlayerActionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&buf, int32(DigFinished)))
	require.NoError(t, varint.WritePosition(&buf, 10, 64, -5))
	require.NoError(t, varint.WriteUint8(&buf, 1))

	a, err := DecodePlayerAction(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, DigFinished, a.Status)
	assert.Equal(t, int32(10), a.X)
	assert.Equal(t, int32(64), a.Y)
	assert.Equal(t, int32(-5), a.Z)
}

func TestEncodeChunkDataFramesSectionsAndBiomes(t *testing.T) {
	sec := bytes.Repeat([]byte{1}, 4096)
	pkt := EncodeChunkData(ChunkColumn{
		ChunkX: 1, ChunkZ: -1, SectionCount: 1,
		Sections: [][]byte{sec},
		Biomes:   []byte{2},
	})
	assert.Equal(t, int32(ChunkDataPacketID), pkt.ID)

	r := bytes.NewReader(pkt.Data)
	cx, err := varint.ReadInt32(r)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cx)
}
