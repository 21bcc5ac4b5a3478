// File: api/conn.go
// Author: momentics <momentics@gmail.com>
//
// Blocking-style connection abstraction wrapped by poll sources.
// Operations signal "cannot make progress now" with ErrWouldBlock.

package api

// Conn abstracts the wrapped I/O resource. Read, Write and Flush follow
// nonblocking semantics: they either make progress immediately or fail
// with ErrWouldBlock, in which case the caller retries after the next
// readiness event.
type Conn interface {
	// Read reads into p. Returns ErrWouldBlock when no data is available.
	Read(p []byte) (int, error)

	// Write writes p. Returns ErrWouldBlock when the resource cannot
	// accept more bytes right now. Partial writes return the count
	// written with a nil error.
	Write(p []byte) (int, error)

	// Flush pushes out any internally buffered bytes. May return
	// ErrWouldBlock; retained bytes are retried on the next call.
	Flush() error

	// Close releases the resource.
	Close() error
}

// RawConn is a Conn backed by an OS-level descriptor. Registrars that
// key registrations by descriptor require this upgrade.
type RawConn interface {
	Conn

	// RawFD returns the underlying file descriptor or handle.
	RawFD() uintptr
}
