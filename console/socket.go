package console

import (
	"bufio"
	"console-toolkit/util"
	uatomic "console-toolkit/util/atomic"
	uerrors "console-toolkit/util/errors"
	uio "console-toolkit/util/io"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNotDraining = errors.New("console: draining disabled")

var socketIDs util.IDGenerator

// Socket attaches to a stream socket carrying a machine's console.
//
// A background routine drains the socket into an in-memory buffer so the
// peer never blocks on a slow reader, and Recv serves bytes out of that
// buffer with its own timeout, decoupled from the transport's timing.
// Optionally every drained byte is mirrored to a log file for debugging.
//
// With NoDrain set there is no routine and no buffer; the Socket is a
// transparent wrapper around the underlying transport.
type Socket struct {
	net.Conn

	id  uint32
	cfg Config

	buffer byteBuffer
	pool   *util.BufferPool

	logfile *os.File
	logw    *bufio.Writer

	recvTimeout atomic.Value
	drainErr    atomic.Value

	open uatomic.Bool

	mu sync.Mutex
	wg sync.WaitGroup
}

// Dial connects to the UNIX domain socket at addr and starts draining it.
func Dial(addr string, cfg Config) (*Socket, error) {
	conn, err := net.Dial("unix", addr)
	if err != nil {
		return nil, err
	}
	s, err := New(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-connected transport. The caller hands over
// ownership of conn; it is closed exactly once, by Close.
func New(conn net.Conn, cfg Config) (*Socket, error) {
	cfg = sanitizeConfig(cfg)
	s := &Socket{
		Conn: conn,
		id:   socketIDs.Next(),
		cfg:  cfg,
	}
	if cfg.NoDrain {
		s.open.Set(true)
		return s, nil
	}
	s.recvTimeout.Store(cfg.RecvTimeout)
	if cfg.LogPath != "" {
		f, err := os.Create(cfg.LogPath)
		if err != nil {
			return nil, err
		}
		s.logfile = f
		s.logw = bufio.NewWriter(f)
	}
	s.pool = util.NewBufferPool(cfg.ReadBufferSize, 1)
	s.open.Set(true)
	s.wg.Add(1)
	go s.drainRoutine()
	return s, nil
}

// Recv returns exactly n bytes of console output, oldest first. It waits
// until the drain routine has buffered enough, polling at PollInterval,
// and fails with ErrTimeout once the recv timeout elapses. In NoDrain
// mode it reads the transport directly instead.
func (s *Socket) Recv(n int) ([]byte, error) {
	if !s.open.Get() {
		return nil, io.ErrClosedPipe
	}
	if n <= 0 {
		return nil, io.ErrShortBuffer
	}
	if s.cfg.NoDrain {
		if err := s.armReadDeadline(); err != nil {
			return nil, err
		}
		return uio.ReadBytes(s.Conn, n)
	}
	timeout := s.recvTimeout.Load().(time.Duration)
	start := time.Now()
	for s.buffer.len() < n {
		if time.Since(start) > timeout {
			return nil, uerrors.ErrTimeout
		}
		time.Sleep(s.cfg.PollInterval)
	}
	// Recv is the only consumer, so the bytes cannot go away between the
	// length check and the take.
	p, _ := s.buffer.take(n)
	return p, nil
}

// RecvUntil returns console output up to and including the first
// occurrence of pattern. Harnesses use it to wait for a boot marker or
// a shell prompt. Governed by the same timeout and poll cycle as Recv.
func (s *Socket) RecvUntil(pattern []byte) ([]byte, error) {
	if !s.open.Get() {
		return nil, io.ErrClosedPipe
	}
	if s.cfg.NoDrain {
		return nil, ErrNotDraining
	}
	if len(pattern) == 0 {
		return nil, io.ErrShortBuffer
	}
	timeout := s.recvTimeout.Load().(time.Duration)
	start := time.Now()
	for {
		if i := s.buffer.index(pattern); i >= 0 {
			p, _ := s.buffer.take(i + len(pattern))
			return p, nil
		}
		if time.Since(start) > timeout {
			return nil, uerrors.ErrTimeout
		}
		time.Sleep(s.cfg.PollInterval)
	}
}

// SetTimeout changes the timeout used by subsequent Recv calls. In
// NoDrain mode the transport has no buffering layer in front of it, so
// the timeout is applied to the transport's own read deadline instead.
func (s *Socket) SetTimeout(d time.Duration) {
	s.recvTimeout.Store(d)
}

// SetBlocking does nothing. It is kept so the Socket can stand in for a
// generic socket in code that expects one.
func (s *Socket) SetBlocking() {}

// DrainErr returns the transport error that stopped the drain routine,
// if any. A dead transport otherwise only shows up as Recv timing out;
// this lets a harness tell a dead console from a quiet one.
func (s *Socket) DrainErr() error {
	if err, ok := s.drainErr.Load().(error); ok {
		return err
	}
	return nil
}

// Close stops the drain routine, waits for it to finish, then releases
// the transport and the log file. Safe to call more than once; only the
// first call does anything. Must not be called from the drain routine.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open.Get() {
		return nil
	}
	s.open.Set(false)
	// The routine notices the flag within one ReadTimeout. The transport
	// and log file stay open until it has fully stopped.
	s.wg.Wait()
	err := s.Conn.Close()
	if s.logfile != nil {
		if ferr := s.logw.Flush(); err == nil {
			err = ferr
		}
		if ferr := s.logfile.Close(); err == nil {
			err = ferr
		}
		s.logfile = nil
		s.logw = nil
	}
	return err
}

// armReadDeadline applies the recv timeout to the transport before a
// passthrough read. No stored timeout means no deadline.
func (s *Socket) armReadDeadline() error {
	t, ok := s.recvTimeout.Load().(time.Duration)
	if !ok {
		return nil
	}
	var deadline time.Time
	if t > 0 {
		deadline = time.Now().Add(t)
	}
	return s.Conn.SetReadDeadline(deadline)
}
