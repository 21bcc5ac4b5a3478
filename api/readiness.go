// File: api/readiness.go
// Author: momentics <momentics@gmail.com>
//
// Readiness bitmask and direction selectors shared by registrations,
// reactors and poll sources.

package api

import "strings"

// Readiness is a bit-set of conditions an I/O resource has been observed
// ready for. A set bit records a past observation, not a current
// guarantee; staleness is resolved by attempting the operation and
// handling ErrWouldBlock.
type Readiness uint32

const (
	// ReadReady indicates the resource can service a read without blocking.
	ReadReady Readiness = 1 << iota
	// WriteReady indicates the resource can service a write without blocking.
	WriteReady
	// ErrorReady indicates a terminal error condition on the resource.
	ErrorReady
	// HangupReady indicates the peer closed its end of the resource.
	HangupReady
)

// ReadMask covers every condition relevant to the read side. Error and
// hangup affect both directions, so both side masks include them.
const ReadMask = ReadReady | ErrorReady | HangupReady

// WriteMask covers every condition relevant to the write side.
const WriteMask = WriteReady | ErrorReady | HangupReady

// Contains reports whether every bit of other is set in r.
func (r Readiness) Contains(other Readiness) bool { return r&other == other }

// Intersects reports whether any bit of other is set in r.
func (r Readiness) Intersects(other Readiness) bool { return r&other != 0 }

// IsZero reports whether no condition is set.
func (r Readiness) IsZero() bool { return r == 0 }

// Terminal reports whether a sticky condition (error or hangup) is set.
// Terminal conditions are never cleared for the lifetime of an adapter.
func (r Readiness) Terminal() bool { return r&(ErrorReady|HangupReady) != 0 }

// String renders the set bits as "read|write|error|hangup".
func (r Readiness) String() string {
	if r.IsZero() {
		return "none"
	}
	parts := make([]string, 0, 4)
	if r&ReadReady != 0 {
		parts = append(parts, "read")
	}
	if r&WriteReady != 0 {
		parts = append(parts, "write")
	}
	if r&ErrorReady != 0 {
		parts = append(parts, "error")
	}
	if r&HangupReady != 0 {
		parts = append(parts, "hangup")
	}
	return strings.Join(parts, "|")
}

// Direction selects one side of a full-duplex resource.
type Direction uint8

const (
	// DirRead selects the read side.
	DirRead Direction = iota
	// DirWrite selects the write side.
	DirWrite
)

// Mask returns the readiness mask relevant to the direction, with the
// sticky error and hangup conditions folded in.
func (d Direction) Mask() Readiness {
	if d == DirWrite {
		return WriteMask
	}
	return ReadMask
}

// Bit returns the direction's primary, clearable bit. Error and hangup
// are excluded: once observed they stay visible.
func (d Direction) Bit() Readiness {
	if d == DirWrite {
		return WriteReady
	}
	return ReadReady
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == DirWrite {
		return "write"
	}
	return "read"
}
