package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// pollDeadline bounds how long a single Recv/Send/Accept syscall is allowed
// to block before we treat it as ErrWouldBlock and return control to the
// caller's event loop. The teacher's acceptLoop/handleConnection use
// ordinary blocking net.Conn reads from dedicated goroutines; picocore has
// one loop, so every call here is a SetDeadline-bounded poll instead.
const pollDeadline = time.Millisecond

// TCPListener adapts net.TCPListener to the non-blocking Listener contract
// by giving every Accept a short deadline.
type TCPListener struct {
	ln *net.TCPListener
}

// Listen opens a TCP listener on addr (e.g. ":25565").
func Listen(addr string) (*TCPListener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, err
	}
	return &TCPListener{ln: ln}, nil
}

func (l *TCPListener) Accept() (Conn, error) {
	if err := l.ln.SetDeadline(time.Now().Add(pollDeadline)); err != nil {
		return nil, err
	}
	conn, err := l.ln.AcceptTCP()
	if err != nil {
		if isTimeout(err) {
			return nil, ErrWouldBlock
		}
		return nil, err
	}
	_ = conn.SetNoDelay(true)
	return &TCPConn{conn: conn}, nil
}

func (l *TCPListener) Close() error {
	return l.ln.Close()
}

// TCPConn adapts net.TCPConn to the non-blocking Conn contract. It keeps a
// small peek-ahead buffer so RecvPeek can be serviced even though net.Conn
// has no native MSG_PEEK (spec.md §4.6 "peek discipline").
type TCPConn struct {
	conn    *net.TCPConn
	peekBuf [16]byte
	peekLen int
}

func (c *TCPConn) Recv(buf []byte, flags RecvFlags) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	if c.peekLen > 0 {
		n := copy(buf, c.peekBuf[:c.peekLen])
		if flags == RecvConsume {
			copy(c.peekBuf[:], c.peekBuf[n:c.peekLen])
			c.peekLen -= n
		}
		if n == len(buf) || flags == RecvPeek {
			return n, nil
		}
		// Consuming read drained the peek buffer but the caller wants
		// more than we had stashed; fall through to read the remainder
		// straight from the wire. The stashed bytes already satisfy this
		// call, so a wire error (including WouldBlock) is left for the next.
		m, _ := c.recvWire(buf[n:])
		return n + m, nil
	}

	if flags == RecvPeek {
		n, err := c.recvWire(c.peekBuf[:cap(c.peekBuf)])
		if n > 0 {
			c.peekLen = n
		}
		if err != nil && n == 0 {
			return 0, err
		}
		got := copy(buf, c.peekBuf[:c.peekLen])
		return got, nil
	}

	return c.recvWire(buf)
}

func (c *TCPConn) recvWire(buf []byte) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(buf)
	if err != nil {
		if n > 0 {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return 0, ErrClosed
		}
		if isTimeout(err) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

func (c *TCPConn) Send(buf []byte) (int, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(pollDeadline)); err != nil {
		return 0, err
	}
	n, err := c.conn.Write(buf)
	if err != nil {
		if n > 0 {
			return n, nil
		}
		if isTimeout(err) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) Shutdown(how ShutdownHow) error {
	switch how {
	case ShutdownRead:
		return c.conn.CloseRead()
	case ShutdownWrite:
		return c.conn.CloseWrite()
	default:
		return c.conn.Close()
	}
}

func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
