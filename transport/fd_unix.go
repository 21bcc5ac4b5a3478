//go:build unix
// +build unix

// File: transport/fd_unix.go
// Author: momentics <momentics@gmail.com>
//
// Nonblocking file-descriptor connection. Maps EAGAIN onto the
// library's ErrWouldBlock retry cue.

package transport

import (
	"io"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/api"
)

// FDConn adapts a nonblocking descriptor to api.RawConn.
type FDConn struct {
	fd int
}

// NewFDConn takes ownership of fd and switches it to nonblocking mode.
func NewFDConn(fd int) (*FDConn, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	return &FDConn{fd: fd}, nil
}

// Read implements api.Conn.Read. A zero-length read on a nonempty
// buffer reports io.EOF.
func (c *FDConn) Read(p []byte) (int, error) {
	n, err := unix.Read(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements api.Conn.Write.
func (c *FDConn) Write(p []byte) (int, error) {
	n, err := unix.Write(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

// Flush implements api.Conn.Flush. Writes go straight to the kernel;
// nothing is buffered here.
func (c *FDConn) Flush() error { return nil }

// Close implements api.Conn.Close.
func (c *FDConn) Close() error { return unix.Close(c.fd) }

// RawFD implements api.RawConn.RawFD.
func (c *FDConn) RawFD() uintptr { return uintptr(c.fd) }
