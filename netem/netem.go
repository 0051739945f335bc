package netem

import (
	uio "console-toolkit/util/io"
	"net"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// The size of emulated write fragments.
	// Zero value means writes pass through whole.
	WriteFragmentSize int
	// Pause inserted before each fragment to emulate a console producing
	// output over time. Zero value means no pause.
	WriteDelay time.Duration
}

// Netem wraps a stream transport and reshapes writes to look like a
// machine console producing output: bursts split into fragments with a
// delay between them. Reads pass through untouched.
type Netem struct {
	net.Conn

	writeFragmentSize uint32
	writeDelay        int64
}

func New(conn net.Conn, cfg Config) *Netem {
	ne := &Netem{Conn: conn}
	ne.Update(cfg)
	return ne
}

// Update changes the emulation settings.
// Takes effect on the next write operation.
func (ne *Netem) Update(cfg Config) {
	if cfg.WriteFragmentSize < 0 {
		cfg.WriteFragmentSize = 0
	}
	if cfg.WriteDelay < 0 {
		cfg.WriteDelay = 0
	}
	atomic.StoreUint32(&ne.writeFragmentSize, uint32(cfg.WriteFragmentSize))
	atomic.StoreInt64(&ne.writeDelay, int64(cfg.WriteDelay))
}

func (ne *Netem) Reset() {
	ne.Update(Config{})
}

func (ne *Netem) Write(b []byte) (int, error) {
	fs := int(atomic.LoadUint32(&ne.writeFragmentSize))
	delay := time.Duration(atomic.LoadInt64(&ne.writeDelay))
	if fs <= 0 {
		fs = len(b)
	}
	w := 0
	for w < len(b) {
		end := w + fs
		if end > len(b) {
			end = len(b)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		if err := uio.WriteFull(ne.Conn, b[w:end]); err != nil {
			return w, err
		}
		log.WithFields(logrus.Fields{
			"op":       "write",
			"fragment": end - w,
		}).Debug("Wrote fragment")
		w = end
	}
	return w, nil
}
