package console

import (
	"bytes"
	"sync"
)

// byteBuffer is an unbounded FIFO of raw console bytes. The drain routine
// appends, Recv removes; both sides may run concurrently.
type byteBuffer struct {
	buf []byte
	mu  sync.Mutex
}

func (b *byteBuffer) append(p []byte) {
	b.mu.Lock()
	b.buf = append(b.buf, p...)
	b.mu.Unlock()
}

// take removes and returns the oldest n bytes. It reports false without
// touching the buffer when fewer than n bytes are available.
func (b *byteBuffer) take(n int) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) < n {
		return nil, false
	}
	p := make([]byte, n)
	copy(p, b.buf)
	b.buf = b.buf[n:]
	return p, true
}

// index returns the offset of the first occurrence of pattern, or -1.
func (b *byteBuffer) index(pattern []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Index(b.buf, pattern)
}

func (b *byteBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}
