// File: poll/async.go
// Author: momentics <momentics@gmail.com>
//
// Read/write/flush composition over the poll/clear protocol. Each
// operation gates on cached readiness, attempts the underlying call and
// converts ErrWouldBlock into "pending, wake me later".

package poll

import (
	"errors"

	"github.com/momentics/hioload-poll/api"
)

// PollRead attempts a read once the read side is ready. done == false
// means the read could not complete: readiness was cleared and w will
// fire when retrying is worthwhile. On success the cached readiness is
// left set, since a short read does not imply the resource stopped
// being ready. Hard errors pass through verbatim with done == true.
func (s *Source) PollRead(w api.Waker, p []byte) (n int, done bool, err error) {
	if _, ready, err := s.PollReadReady(w); err != nil || !ready {
		return 0, false, err
	}

	n, err = s.conn.Read(p)
	if errors.Is(err, api.ErrWouldBlock) {
		if cerr := s.ClearReadReady(w); cerr != nil {
			return 0, false, cerr
		}
		return 0, false, nil
	}
	return n, true, err
}

// PollWrite attempts a write once the write side is ready. Semantics
// mirror PollRead.
func (s *Source) PollWrite(w api.Waker, p []byte) (n int, done bool, err error) {
	if _, ready, err := s.PollWriteReady(w); err != nil || !ready {
		return 0, false, err
	}

	n, err = s.conn.Write(p)
	if errors.Is(err, api.ErrWouldBlock) {
		if cerr := s.ClearWriteReady(w); cerr != nil {
			return 0, false, cerr
		}
		return 0, false, nil
	}
	return n, true, err
}

// PollFlush pushes out buffered bytes once the write side is ready.
func (s *Source) PollFlush(w api.Waker) (done bool, err error) {
	if _, ready, err := s.PollWriteReady(w); err != nil || !ready {
		return false, err
	}

	err = s.conn.Flush()
	if errors.Is(err, api.ErrWouldBlock) {
		if cerr := s.ClearWriteReady(w); cerr != nil {
			return false, cerr
		}
		return false, nil
	}
	return true, err
}

// PollShutdown always completes immediately. Graceful shutdown of the
// underlying transport, where meaningful, is the connection's own
// responsibility.
func (s *Source) PollShutdown(_ api.Waker) (done bool, err error) {
	return true, nil
}
