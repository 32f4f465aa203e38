package session

import (
	"bytes"
	"testing"

	"github.com/pico-mc/picocore/pkg/gameplay"
	"github.com/pico-mc/picocore/pkg/protocol"
	"github.com/pico-mc/picocore/pkg/registry"
	"github.com/pico-mc/picocore/pkg/transport"
	"github.com/pico-mc/picocore/pkg/varint"
	"github.com/pico-mc/picocore/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is the same in-memory transport.Conn double pkg/protocol's own
// tests use, duplicated here since it is unexported there.
type fakeConn struct {
	inbound  bytes.Buffer
	outbound bytes.Buffer
}

func (f *fakeConn) Recv(buf []byte, flags transport.RecvFlags) (int, error) {
	if f.inbound.Len() == 0 {
		return 0, transport.ErrWouldBlock
	}
	if flags == transport.RecvPeek {
		return copy(buf, f.inbound.Bytes()), nil
	}
	return f.inbound.Read(buf)
}

func (f *fakeConn) Send(buf []byte) (int, error)              { return f.outbound.Write(buf) }
func (f *fakeConn) Close() error                               { return nil }
func (f *fakeConn) Shutdown(how transport.ShutdownHow) error   { return nil }
func (f *fakeConn) RemoteAddr() string                         { return "fake:0" }

func writeFramed(t *testing.T, conn *fakeConn, id int32, body []byte) {
	t.Helper()
	var payload bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&payload, id))
	payload.Write(body)

	var framed bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&framed, int32(payload.Len())))
	framed.Write(payload.Bytes())
	conn.inbound.Write(framed.Bytes())
}

func testServerInfo(t *testing.T) *ServerInfo {
	t.Helper()
	regs, err := registry.Default()
	require.NoError(t, err)
	return &ServerInfo{
		MOTD:            "test server",
		ProtocolName:    "1.21.8",
		ProtocolVersion: 772,
		MaxPlayers:      20,
		Registries:      regs,
		AllowChests:     true,
	}
}

// TestSessionFullLoginToPlayFlow drives a session through every state a
// joining player passes through: handshake, login, configuration, play,
// asserting both the player record and the outbound packet stream land
// where spec.md §4.7 says they should.
func TestSessionFullLoginToPlayFlow(t *testing.T) {
	conn := &fakeConn{}
	w := world.NewWorld(42)
	info := testServerInfo(t)
	player := world.NewPlayer(0, "", [16]byte{})
	s := New(conn, transport.NoopHost{}, player, info)
	var ev gameplay.Events

	var hs bytes.Buffer
	require.NoError(t, varint.WriteVarInt(&hs, 772))
	require.NoError(t, varint.WriteString(&hs, "localhost"))
	require.NoError(t, varint.WriteUint16(&hs, 25565))
	require.NoError(t, varint.WriteVarInt(&hs, protocol.NextStateLogin))
	writeFramed(t, conn, protocol.HandshakePacketID, hs.Bytes())

	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.Equal(t, world.StateLogin, player.State)

	var ls bytes.Buffer
	require.NoError(t, varint.WriteString(&ls, "Notch"))
	ls.Write(make([]byte, 16))
	writeFramed(t, conn, protocol.LoginStartPacketID, ls.Bytes())

	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.Equal(t, world.StateConfiguration, player.State)
	assert.Equal(t, "Notch", player.Username)
	assert.NotZero(t, player.EntityID)
	assert.Same(t, player, w.Players[player.EntityID])
	assert.Greater(t, conn.outbound.Len(), 0, "login-success and registry data should have been queued")

	conn.outbound.Reset()
	var ci bytes.Buffer
	require.NoError(t, varint.WriteString(&ci, "en_us"))
	require.NoError(t, varint.WriteInt8(&ci, 8))
	require.NoError(t, varint.WriteVarInt(&ci, 0))
	require.NoError(t, varint.WriteBool(&ci, true))
	require.NoError(t, varint.WriteUint8(&ci, 0x7F))
	require.NoError(t, varint.WriteVarInt(&ci, 1))
	writeFramed(t, conn, protocol.ClientInformationPacketID, ci.Bytes())

	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.Equal(t, int32(8), player.ViewDistance)
	assert.Equal(t, world.StateConfiguration, player.State, "still configuration until ack")

	writeFramed(t, conn, protocol.AcknowledgeFinishConfigPacketID, nil)
	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.Equal(t, world.StatePlay, player.State)
	assert.True(t, player.SpawnSent)
	assert.NotEmpty(t, player.LoadedChunks, "entering play should load the spawn view-distance window")
	assert.Greater(t, conn.outbound.Len(), 0, "login-play/spawn/chunks should have been queued")
}

// TestSessionStatusRequestRespondsWithoutAdvancingState verifies the
// status state never transitions the session to closing on a normal
// request/ping pair (spec.md §4.7 "status").
func TestSessionStatusRequestRespondsWithoutAdvancingState(t *testing.T) {
	conn := &fakeConn{}
	w := world.NewWorld(1)
	info := testServerInfo(t)
	player := world.NewPlayer(0, "", [16]byte{})
	player.State = world.StateStatus
	s := New(conn, transport.NoopHost{}, player, info)
	var ev gameplay.Events

	writeFramed(t, conn, protocol.StatusRequestPacketID, nil)
	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.False(t, s.Closing())
	assert.Greater(t, conn.outbound.Len(), 0)

	conn.outbound.Reset()
	var ping bytes.Buffer
	require.NoError(t, varint.WriteInt64(&ping, 123))
	writeFramed(t, conn, protocol.PingRequestPacketID, ping.Bytes())
	require.NoError(t, s.ProcessInbound(w, &ev))
	assert.False(t, s.Closing())
	assert.Greater(t, conn.outbound.Len(), 0)
}

// TestSessionKeepaliveTimeoutDetection exercises KeepaliveTimedOut once a
// play-state session has gone silent (spec.md §4.7: "Receiving no
// keepalive-reply for KEEPALIVE_TIMEOUT transitions to closing").
func TestSessionKeepaliveTimeoutDetection(t *testing.T) {
	conn := &fakeConn{}
	info := testServerInfo(t)
	player := world.NewPlayer(1, "Steve", [16]byte{})
	player.State = world.StatePlay
	s := New(conn, transport.NoopHost{}, player, info)

	assert.False(t, s.KeepaliveTimedOut(), "never having received a keepalive reply is not yet a timeout")

	player.LastKeepaliveReceived = 1
	assert.True(t, s.KeepaliveTimedOut())
}

// TestDisconnectMarksClosingAndPlayerState confirms Disconnect moves both
// the session and the underlying player record into the terminal state.
func TestDisconnectMarksClosingAndPlayerState(t *testing.T) {
	conn := &fakeConn{}
	player := world.NewPlayer(1, "Alex", [16]byte{})
	s := New(conn, transport.NoopHost{}, player, testServerInfo(t))

	s.Disconnect("boom")
	assert.True(t, s.Closing())
	assert.Equal(t, "boom", s.DisconnectReason)
	assert.Equal(t, world.StateClosing, player.State)
}
