// Package protocol implements the varint-framed packet layer of the
// Minecraft Java Edition protocol v772 wire format (spec.md §4.6) and the
// packet payloads needed for the four connection states. It is grounded on
// the teacher's pkg/protocol/packet.go (ReadPacket/WritePacket/MarshalPacket)
// but replaces its single blocking io.Reader/io.Writer with the peek-then-
// consume, non-blocking Stream spec.md §4.6/§5 requires.
package protocol

import (
	"bytes"
	"time"

	"github.com/pico-mc/picocore/pkg/transport"
	"github.com/pico-mc/picocore/pkg/varint"
)

// MaxPacketLength is the largest representable length in a 3-byte VarInt,
// the same ceiling the teacher's ReadPacket enforces.
const MaxPacketLength = 2097151

// PeekBufferSize is the per-session peek-ahead buffer size (spec.md §4.6).
const PeekBufferSize = 16

// PacketBufferSize is the per-client write-coalescing buffer size.
const PacketBufferSize = 2048

// MaxRecvBufLen is the minimum capacity the read-side ring buffer holds.
const MaxRecvBufLen = 8192

// NetworkTimeout bounds progress-free time on a single recv/send before it
// fails with ErrNetworkTimeout (spec.md §5).
const NetworkTimeout = 30 * time.Second

// KeepaliveInterval and KeepaliveTimeout govern the play-state keepalive
// cycle (spec.md §4.7).
const (
	KeepaliveInterval = 10 * time.Second
	KeepaliveTimeout  = 30 * time.Second
)

// movementIDLow and movementIDHigh bound the stale-drain packet ID range
// (spec.md §4.6): serverbound movement packets (set-position, set-rotation,
// set-position-and-rotation, set-on-ground).
const (
	movementIDLow  = 0x1D
	movementIDHigh = 0x20
)

// Packet is a decoded packet: numeric ID plus its raw, not-yet-parsed
// payload bytes.
type Packet struct {
	ID   int32
	Data []byte
}

// MarshalPacket builds a Packet by running builder against a fresh buffer,
// mirroring the teacher's MarshalPacket helper.
func MarshalPacket(id int32, builder func(w *bytes.Buffer)) *Packet {
	var buf bytes.Buffer
	builder(&buf)
	return &Packet{ID: id, Data: buf.Bytes()}
}

// Stream wraps one transport.Conn with the framing behavior spec.md §4.6
// describes: a buffered, non-blocking recv_all/send_all pair, write
// coalescing, and stale-movement-packet draining while a send is blocked.
// It is owned by exactly one pkg/session.Session and touched only from the
// main loop (spec.md §5) — no internal locking.
type Stream struct {
	conn transport.Conn
	host transport.Host

	recvBuf bytes.Buffer
	sendBuf bytes.Buffer

	lastRecvProgress time.Time
	lastSendProgress time.Time
}

// NewStream wraps a connection. host receives Yield() calls whenever a
// recv or send suspends on WouldBlock.
func NewStream(conn transport.Conn, host transport.Host) *Stream {
	if host == nil {
		host = transport.NoopHost{}
	}
	now := time.Now()
	return &Stream{conn: conn, host: host, lastRecvProgress: now, lastSendProgress: now}
}

func (s *Stream) RemoteAddr() string { return s.conn.RemoteAddr() }

// fillRecvBuf pulls whatever bytes are currently available on the wire
// into recvBuf without blocking the caller past one non-blocking Recv
// call; it never waits for more than is already buffered by the OS.
func (s *Stream) fillRecvBuf() error {
	var scratch [4096]byte
	n, err := s.conn.Recv(scratch[:], transport.RecvConsume)
	if n > 0 {
		s.recvBuf.Write(scratch[:n])
		s.lastRecvProgress = time.Now()
	}
	if err != nil {
		if err == transport.ErrWouldBlock {
			return nil
		}
		return err
	}
	return nil
}

// PollPacket opportunistically reads whatever is on the wire and returns a
// fully-framed packet if one is now buffered. It never blocks: if no full
// packet is available, it returns (nil, false, nil) — the "require_first"
// polling discipline spec.md §4.6 describes, used by the main loop to
// check each session without committing to a wait.
func (s *Stream) PollPacket() (*Packet, bool, error) {
	if err := s.fillRecvBuf(); err != nil {
		return nil, false, err
	}
	return s.tryParsePacket()
}

// tryParsePacket attempts to decode one complete packet from the front of
// recvBuf without touching the wire, consuming its bytes from recvBuf only
// if the whole packet is present.
func (s *Stream) tryParsePacket() (*Packet, bool, error) {
	data := s.recvBuf.Bytes()
	r := bytes.NewReader(data)

	length, err := varint.ReadVarInt(r)
	if err != nil {
		if err == varint.ErrShortRead {
			return nil, false, nil
		}
		return nil, false, err
	}
	lengthLen := len(data) - r.Len()
	if length < 1 {
		return nil, false, ErrPacketTooSmall
	}
	if length > MaxPacketLength {
		return nil, false, ErrPacketTooLarge
	}

	total := lengthLen + int(length)
	if len(data) < total {
		return nil, false, nil
	}

	payload := make([]byte, length)
	copy(payload, data[lengthLen:total])
	s.recvBuf.Next(total)

	pr := bytes.NewReader(payload)
	id, err := varint.ReadVarInt(pr)
	if err != nil {
		return nil, false, err
	}
	idLen := len(payload) - pr.Len()

	return &Packet{ID: id, Data: payload[idLen:]}, true, nil
}

// ReadPacket blocks (cooperatively, via host.Yield) until a full packet is
// available, or until NetworkTimeout elapses with no progress.
func (s *Stream) ReadPacket() (*Packet, error) {
	start := time.Now()
	s.lastRecvProgress = start
	for {
		pkt, ok, err := s.PollPacket()
		if err != nil {
			return nil, err
		}
		if ok {
			return pkt, nil
		}
		if time.Since(s.lastRecvProgress) > NetworkTimeout {
			return nil, ErrNetworkTimeout
		}
		s.host.Yield()
	}
}

// QueuePacket frames a packet and appends it to the write buffer, flushing
// automatically once the buffer grows past PacketBufferSize (spec.md
// §4.6's packet_start/packet_write/packet_flush family, collapsed into one
// call since picocore always has the whole packet body in hand).
func (s *Stream) QueuePacket(p *Packet) error {
	idSize := varint.VarIntSize(p.ID)
	total := int32(idSize + len(p.Data))

	var hdr bytes.Buffer
	varint.WriteVarInt(&hdr, total)
	varint.WriteVarInt(&hdr, p.ID)

	s.sendBuf.Write(hdr.Bytes())
	s.sendBuf.Write(p.Data)

	if s.sendBuf.Len() >= PacketBufferSize {
		return s.Flush()
	}
	return nil
}

// Flush sends whatever is queued, yielding cooperatively while the socket's
// send buffer is full, draining stale movement packets from the read side
// while it waits (spec.md §4.6 "Stale-packet drain").
func (s *Stream) Flush() error {
	start := time.Now()
	s.lastSendProgress = start
	for s.sendBuf.Len() > 0 {
		n, err := s.conn.Send(s.sendBuf.Bytes())
		if err != nil {
			if err == transport.ErrWouldBlock {
				if time.Since(s.lastSendProgress) > NetworkTimeout {
					return ErrNetworkTimeout
				}
				s.drainStaleMovement()
				s.host.Yield()
				continue
			}
			return err
		}
		if n > 0 {
			s.sendBuf.Next(n)
			s.lastSendProgress = time.Now()
		}
	}
	return nil
}

// drainStaleMovement opportunistically reads more bytes into recvBuf and,
// if more than one fully-buffered movement packet (IDs movementIDLow..
// movementIDHigh) is queued, removes all but the most recent — keeping
// every non-movement packet and the last movement packet untouched, in
// original order (spec.md §4.6).
func (s *Stream) drainStaleMovement() {
	if err := s.fillRecvBuf(); err != nil {
		return
	}

	type span struct {
		start, end int
		id         int32
	}
	var spans []span
	offset := 0
	data := s.recvBuf.Bytes()
	for offset < len(data) {
		r := bytes.NewReader(data[offset:])
		length, err := varint.ReadVarInt(r)
		if err != nil || length < 1 || length > MaxPacketLength {
			break
		}
		lengthLen := (len(data) - offset) - r.Len()
		total := lengthLen + int(length)
		if offset+total > len(data) {
			break
		}
		pr := bytes.NewReader(data[offset+lengthLen : offset+total])
		id, err := varint.ReadVarInt(pr)
		if err != nil {
			break
		}
		spans = append(spans, span{start: offset, end: offset + total, id: id})
		offset += total
	}

	lastMovement := -1
	movementCount := 0
	for i, sp := range spans {
		if sp.id >= movementIDLow && sp.id <= movementIDHigh {
			movementCount++
			lastMovement = i
		}
	}
	if movementCount < 2 {
		return
	}

	var kept bytes.Buffer
	for i, sp := range spans {
		isStaleMovement := spans[i].id >= movementIDLow && spans[i].id <= movementIDHigh && i != lastMovement
		if isStaleMovement {
			continue
		}
		kept.Write(data[sp.start:sp.end])
	}
	// Anything past the last fully-parsed span (a partial trailing
	// packet) is preserved verbatim.
	if len(spans) > 0 {
		kept.Write(data[spans[len(spans)-1].end:])
	} else {
		kept.Write(data)
	}

	s.recvBuf.Reset()
	s.recvBuf.Write(kept.Bytes())
}
