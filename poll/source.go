// File: poll/source.go
// Author: momentics <momentics@gmail.com>
//
// Readiness-caching poll adapter. Couples a would-block Conn with its
// reactor registration and memoizes observed readiness in two atomic
// cells so steady-state polls avoid reactor round-trips.

package poll

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-poll/api"
)

// ErrNoRegistrar reports a nil registrar passed to Wrap. This is a
// programming error in the caller's wiring, distinct from registration
// failures reported by the registrar itself.
var ErrNoRegistrar = errors.New("poll: no registrar")

// Source bridges a blocking-style connection to a poll-based read/write
// contract driven by a reactor.
//
// Readiness reported by PollReadReady / PollWriteReady is a cached
// observation: it persists until explicitly cleared, so polling the same
// side twice without an intervening clear never suspends. When an
// attempted operation fails with ErrWouldBlock the caller clears the
// side's readiness and waits for the next event.
//
// Usage contract: at most one task polls the read side at a time and at
// most one task polls the write side at a time. The two tasks may be
// distinct and run concurrently. Violating this is not detected and
// results in lost wakeups, not memory unsafety.
type Source struct {
	conn      api.Conn
	registrar api.Registrar
	reg       api.Registration

	// Last observed readiness per side. Bits are set by draining the
	// registration stream and cleared only via ClearReadReady /
	// ClearWriteReady; error and hangup bits are never cleared.
	readReadiness  atomic.Uint32
	writeReadiness atomic.Uint32
}

// Wrap registers conn with the registrar and returns the adapter. The
// connection is exclusively owned by the returned Source until Unwrap
// or Close.
func Wrap(conn api.Conn, registrar api.Registrar) (*Source, error) {
	if registrar == nil {
		return nil, ErrNoRegistrar
	}
	reg, err := registrar.Register(conn)
	if err != nil {
		return nil, fmt.Errorf("poll: register: %w", err)
	}
	return &Source{conn: conn, registrar: registrar, reg: reg}, nil
}

// Conn returns the wrapped connection.
func (s *Source) Conn() api.Conn { return s.conn }

// Unwrap deregisters the connection eagerly and returns ownership to
// the caller. A deregistration failure is returned alongside the
// connection; the adapter is unusable afterward either way.
func (s *Source) Unwrap() (api.Conn, error) {
	conn := s.conn
	s.conn = nil
	if err := s.registrar.Deregister(conn, s.reg); err != nil {
		return conn, fmt.Errorf("poll: deregister: %w", err)
	}
	return conn, nil
}

// Close deregisters the connection best-effort and closes it. The
// deregistration result is discarded: there is no observer left to
// report it to. Callers that need the error use Unwrap instead.
func (s *Source) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	_ = s.registrar.Deregister(conn, s.reg)
	return conn.Close()
}

// PollReadReady reports the read-side readiness state. ready == false
// means nothing relevant is cached or pending and w has been parked for
// a future wake. Once any relevant bit is cached the call returns
// immediately and never parks.
func (s *Source) PollReadReady(w api.Waker) (api.Readiness, bool, error) {
	return s.pollReady(api.DirRead, w)
}

// PollWriteReady reports the write-side readiness state. Semantics
// mirror PollReadReady.
func (s *Source) PollWriteReady(w api.Waker) (api.Readiness, bool, error) {
	return s.pollReady(api.DirWrite, w)
}

// ClearReadReady unsets the cached read bit and re-arms w. Error and
// hangup bits are terminal and stay set so a caller can observe the
// condition instead of suspending forever. If readiness reappeared
// between the would-block and the clear, w fires synchronously: the
// clear itself does not consult the registration, so skipping this
// re-check would drop a racing notification.
func (s *Source) ClearReadReady(w api.Waker) error {
	return s.clearReady(api.DirRead, w)
}

// ClearWriteReady unsets the cached write bit and re-arms w. Semantics
// mirror ClearReadReady.
func (s *Source) ClearWriteReady(w api.Waker) error {
	return s.clearReady(api.DirWrite, w)
}

func (s *Source) cell(dir api.Direction) *atomic.Uint32 {
	if dir == api.DirWrite {
		return &s.writeReadiness
	}
	return &s.readReadiness
}

func (s *Source) pollReady(dir api.Direction, w api.Waker) (api.Readiness, bool, error) {
	cell := s.cell(dir)
	mask := dir.Mask()
	cached := api.Readiness(cell.Load())

	if cached&mask == 0 {
		// Nothing relevant cached: consume the registration's stream.
		// The stream is coalesced and may deliver readiness outside the
		// requested mask; such bits are still accumulated into the
		// cache so later polls find them, and the loop keeps draining.
		var ret api.Readiness
		for {
			ready, ok, err := s.reg.PollReadiness(dir, w)
			if err != nil {
				return 0, false, err
			}
			if !ok {
				return 0, false, nil
			}
			cell.Or(uint32(ready))
			ret |= ready & mask
			if ret != 0 {
				return ret, true, nil
			}
		}
	}

	// Already ready: pick up anything newly observed without parking.
	// This fast path must not suspend.
	ready, err := s.reg.TakeReadiness(dir)
	if err != nil {
		return 0, false, err
	}
	if !ready.IsZero() {
		cell.Or(uint32(ready))
		cached |= ready
	}
	return cached, true, nil
}

func (s *Source) clearReady(dir api.Direction, w api.Waker) error {
	s.cell(dir).And(^uint32(dir.Bit()))

	_, ready, err := s.pollReady(dir, w)
	if err != nil {
		return err
	}
	if ready {
		w.Wake()
	}
	return nil
}
