package util

import "sync"

// BufferPool hands out fixed-size scratch buffers. Buffers created up
// front (preallocSize > 0) are recycled through a channel; otherwise the
// pool grows on demand.
type BufferPool struct {
	bufferSize int

	bufferCh chan []byte
	buffers  [][]byte
	mu       sync.Mutex
}

func NewBufferPool(bufferSize int, preallocSize int) *BufferPool {
	if bufferSize <= 0 {
		panic("Buffer size must be greater than zero")
	}
	bp := &BufferPool{bufferSize: bufferSize}
	if preallocSize > 0 {
		bp.bufferCh = make(chan []byte, preallocSize)
		for i := 0; i < preallocSize; i++ {
			bp.bufferCh <- make([]byte, bufferSize)
		}
	}
	return bp
}

func (bp *BufferPool) Get() []byte {
	if bp.bufferCh != nil {
		return <-bp.bufferCh
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if n := len(bp.buffers); n > 0 {
		b := bp.buffers[n-1]
		bp.buffers = bp.buffers[:n-1]
		return b
	}
	return make([]byte, bp.bufferSize)
}

func (bp *BufferPool) Put(b []byte) {
	if len(b) != bp.bufferSize || cap(b) != bp.bufferSize {
		panic("Trying to put buffer with invalid size into pool")
	}
	if bp.bufferCh != nil {
		bp.bufferCh <- b
		return
	}
	bp.mu.Lock()
	bp.buffers = append(bp.buffers, b)
	bp.mu.Unlock()
}
