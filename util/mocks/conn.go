package mocks

import (
	"console-toolkit/util"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// conn is one end of an in-memory stream. Writes land on the peer's
// incoming channel; Read honors deadlines the way a real socket does,
// which is what drain-loop code under test depends on.
type conn struct {
	in  chan []byte
	out chan []byte

	pending  []byte
	readLock sync.Mutex

	readDeadline  atomic.Value
	writeDeadline atomic.Value
	readNotify    chan struct{}
	writeNotify   chan struct{}

	localDone chan struct{}
	peerDone  chan struct{}
	closeOnce sync.Once
}

var _ net.Conn = (*conn)(nil)

// Conn returns both ends of an in-memory, deadline-aware stream. Closing
// one end makes reads on the other end return io.EOF once queued data
// has been consumed, mirroring a remote hangup on a real socket.
func Conn() (net.Conn, net.Conn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	adone := make(chan struct{})
	bdone := make(chan struct{})
	a := newConn(ba, ab, adone, bdone)
	b := newConn(ab, ba, bdone, adone)
	return a, b
}

func newConn(in, out chan []byte, localDone, peerDone chan struct{}) *conn {
	return &conn{
		in:          in,
		out:         out,
		readNotify:  make(chan struct{}),
		writeNotify: make(chan struct{}),
		localDone:   localDone,
		peerDone:    peerDone,
	}
}

func (c *conn) Read(b []byte) (int, error) {
	if len(b) <= 0 {
		return 0, io.ErrShortBuffer
	}
	c.readLock.Lock()
	defer c.readLock.Unlock()
	select {
	case <-c.localDone:
		return 0, io.ErrClosedPipe
	default:
	}
	for {
		if len(c.pending) > 0 {
			n := copy(b, c.pending)
			c.pending = c.pending[n:]
			return n, nil
		}
		// Queued data wins over deadlines and hangups.
		select {
		case p := <-c.in:
			c.pending = p
			continue
		default:
		}
		var deadline <-chan time.Time
		if t, ok := c.readDeadline.Load().(time.Time); ok && !t.IsZero() {
			timer := time.NewTimer(time.Until(t))
			defer timer.Stop()
			deadline = timer.C
		}
		select {
		case p := <-c.in:
			c.pending = p
		case <-c.readNotify:
		case <-deadline:
			return 0, os.ErrDeadlineExceeded
		case <-c.localDone:
			return 0, io.ErrClosedPipe
		case <-c.peerDone:
			select {
			case p := <-c.in:
				c.pending = p
			default:
				return 0, io.EOF
			}
		}
	}
}

func (c *conn) Write(b []byte) (int, error) {
	if len(b) <= 0 {
		return 0, io.EOF
	}
	select {
	case <-c.localDone:
		return 0, io.ErrClosedPipe
	case <-c.peerDone:
		return 0, io.ErrClosedPipe
	default:
	}
	data := make([]byte, len(b))
	copy(data, b)
	for {
		var deadline <-chan time.Time
		if t, ok := c.writeDeadline.Load().(time.Time); ok && !t.IsZero() {
			timer := time.NewTimer(time.Until(t))
			defer timer.Stop()
			deadline = timer.C
		}
		select {
		case c.out <- data:
			return len(b), nil
		case <-c.writeNotify:
		case <-deadline:
			return 0, os.ErrDeadlineExceeded
		case <-c.localDone:
			return 0, io.ErrClosedPipe
		case <-c.peerDone:
			return 0, io.ErrClosedPipe
		}
	}
}

func (c *conn) LocalAddr() net.Addr {
	return nil
}

func (c *conn) RemoteAddr() net.Addr {
	return nil
}

func (c *conn) SetDeadline(t time.Time) error {
	if err := c.SetReadDeadline(t); err != nil {
		return err
	}
	return c.SetWriteDeadline(t)
}

func (c *conn) SetReadDeadline(t time.Time) error {
	c.readDeadline.Store(t)
	util.AsyncNotify(c.readNotify)
	return nil
}

func (c *conn) SetWriteDeadline(t time.Time) error {
	c.writeDeadline.Store(t)
	util.AsyncNotify(c.writeNotify)
	return nil
}

func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.localDone)
	})
	return nil
}
