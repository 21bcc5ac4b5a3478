// File: fake/conn.go
// Author: momentics <momentics@gmail.com>
//
// Scripted api.Conn. Each Read/Write/Flush consumes the next queued
// outcome; with nothing queued, reads and writes report ErrWouldBlock
// and flushes succeed.

package fake

import (
	"sync"

	"github.com/momentics/hioload-poll/api"
)

type readStep struct {
	data []byte
	err  error
}

type writeStep struct {
	n   int
	err error
}

// Conn is a fake api.Conn for driving poll sources in tests.
type Conn struct {
	mu      sync.Mutex
	reads   []readStep
	writes  []writeStep
	flushes []error
	closed  bool

	readAttempts  int
	writeAttempts int
	flushAttempts int
}

// NewConn creates a fake connection with no scripted outcomes.
func NewConn() *Conn {
	return &Conn{}
}

// Read implements api.Conn.Read.
func (c *Conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readAttempts++
	if len(c.reads) == 0 {
		return 0, api.ErrWouldBlock
	}
	step := c.reads[0]
	c.reads = c.reads[1:]
	if step.err != nil {
		return 0, step.err
	}
	return copy(p, step.data), nil
}

// Write implements api.Conn.Write.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeAttempts++
	if len(c.writes) == 0 {
		return 0, api.ErrWouldBlock
	}
	step := c.writes[0]
	c.writes = c.writes[1:]
	if step.err != nil {
		return 0, step.err
	}
	n := step.n
	if n > len(p) {
		n = len(p)
	}
	return n, nil
}

// Flush implements api.Conn.Flush.
func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.flushAttempts++
	if len(c.flushes) == 0 {
		return nil
	}
	err := c.flushes[0]
	c.flushes = c.flushes[1:]
	return err
}

// Close implements api.Conn.Close.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// QueueRead scripts a successful read returning data.
func (c *Conn) QueueRead(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.reads = append(c.reads, readStep{data: buf})
}

// QueueReadError scripts a failing read.
func (c *Conn) QueueReadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = append(c.reads, readStep{err: err})
}

// QueueWrite scripts a successful write of n bytes.
func (c *Conn) QueueWrite(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, writeStep{n: n})
}

// QueueWriteError scripts a failing write.
func (c *Conn) QueueWriteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, writeStep{err: err})
}

// QueueFlushError scripts a failing flush.
func (c *Conn) QueueFlushError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes = append(c.flushes, err)
}

// ReadAttempts returns the number of Read calls so far.
func (c *Conn) ReadAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readAttempts
}

// WriteAttempts returns the number of Write calls so far.
func (c *Conn) WriteAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeAttempts
}

// FlushAttempts returns the number of Flush calls so far.
func (c *Conn) FlushAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushAttempts
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
