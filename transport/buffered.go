// File: transport/buffered.go
// Author: momentics <momentics@gmail.com>
//
// Write-coalescing connection wrapper. Writes accumulate in a pooled
// buffer and are pushed out by Flush, which can itself report
// ErrWouldBlock; bytes already accepted by the kernel are dropped from
// the front and the remainder is retried on the next flush.

package transport

import (
	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/pool"
)

// BufferedConn wraps an api.RawConn with pooled write coalescing.
// It is not internally synchronized: the write side belongs to a single
// task under the poll source usage contract.
type BufferedConn struct {
	raw  api.RawConn
	pool *pool.BytePool
	buf  []byte // pending bytes, backed by a pool buffer
}

// NewBufferedConn wraps raw. Buffers are drawn from p.
func NewBufferedConn(raw api.RawConn, p *pool.BytePool) *BufferedConn {
	return &BufferedConn{raw: raw, pool: p}
}

// Read implements api.Conn.Read, delegating to the wrapped connection.
func (c *BufferedConn) Read(p []byte) (int, error) {
	return c.raw.Read(p)
}

// Write implements api.Conn.Write. Bytes are coalesced; a full buffer
// forces a flush first, and that flush's ErrWouldBlock propagates.
// Writes larger than one pool buffer bypass coalescing.
func (c *BufferedConn) Write(p []byte) (int, error) {
	if c.buf == nil {
		c.buf = c.pool.GetBuffer()[:0]
	}
	if len(c.buf)+len(p) > cap(c.buf) {
		if err := c.Flush(); err != nil {
			return 0, err
		}
	}
	if len(p) > cap(c.buf) {
		return c.raw.Write(p)
	}
	c.buf = append(c.buf, p...)
	return len(p), nil
}

// Flush implements api.Conn.Flush.
func (c *BufferedConn) Flush() error {
	for len(c.buf) > 0 {
		n, err := c.raw.Write(c.buf)
		if n > 0 {
			rem := copy(c.buf, c.buf[n:])
			c.buf = c.buf[:rem]
		}
		if err != nil {
			return err
		}
	}
	return c.raw.Flush()
}

// Pending returns the number of bytes awaiting flush.
func (c *BufferedConn) Pending() int { return len(c.buf) }

// Close returns the buffer to the pool and closes the wrapped
// connection. Unflushed bytes are discarded.
func (c *BufferedConn) Close() error {
	if c.buf != nil {
		c.pool.PutBuffer(c.buf[:cap(c.buf)])
		c.buf = nil
	}
	return c.raw.Close()
}

// RawFD implements api.RawConn.RawFD.
func (c *BufferedConn) RawFD() uintptr { return c.raw.RawFD() }
