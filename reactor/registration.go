// File: reactor/registration.go
// Author: momentics <momentics@gmail.com>
//
// Per-connection registration: coalesced readiness cells and parked
// wakers, one of each per direction. Lock-free; the reactor goroutine
// delivers, at most one poller per direction consumes.

package reactor

import (
	"sync/atomic"

	"github.com/momentics/hioload-poll/api"
)

// registration implements api.Registration for one registered
// connection.
type registration struct {
	// pending holds readiness delivered but not yet taken, one
	// coalesced cell per direction.
	pending [2]atomic.Uint32

	// wakers holds at most one parked waker per direction. The reactor
	// swaps the waker out before firing it, so a waker fires at most
	// once per park.
	wakers [2]atomic.Pointer[api.Waker]

	// closed is shared with the owning reactor.
	closed *atomic.Bool
}

func newRegistration(closed *atomic.Bool) *registration {
	return &registration{closed: closed}
}

// TakeReadiness implements api.Registration. It never parks a waker.
func (r *registration) TakeReadiness(dir api.Direction) (api.Readiness, error) {
	if r.closed.Load() {
		return 0, api.ErrRegistrarClosed
	}
	return api.Readiness(r.pending[dir].Swap(0)), nil
}

// PollReadiness implements api.Registration.
func (r *registration) PollReadiness(dir api.Direction, w api.Waker) (api.Readiness, bool, error) {
	if r.closed.Load() {
		return 0, false, api.ErrRegistrarClosed
	}
	if bits := r.pending[dir].Swap(0); bits != 0 {
		return api.Readiness(bits), true, nil
	}

	r.wakers[dir].Store(&w)

	// Re-check after parking: a delivery that raced the park stored its
	// bits before we could observe them, and may or may not have seen
	// the waker. Either way the readiness must not be lost.
	if bits := r.pending[dir].Swap(0); bits != 0 {
		r.wakers[dir].Store(nil)
		return api.Readiness(bits), true, nil
	}
	return 0, false, nil
}

// deliver ORs ready into the affected side cells and hands any parked
// wakers to wake. Called from the reactor goroutine only.
func (r *registration) deliver(ready api.Readiness, wake func(api.Waker)) {
	for _, dir := range []api.Direction{api.DirRead, api.DirWrite} {
		bits := ready & dir.Mask()
		if bits == 0 {
			continue
		}
		r.pending[dir].Or(uint32(bits))
		if wp := r.wakers[dir].Swap(nil); wp != nil {
			wake(*wp)
		}
	}
}
