// File: fake/registration.go
// Author: momentics <momentics@gmail.com>
//
// Controllable api.Registration: tests inject readiness per direction
// and observe parked wakers firing.

package fake

import (
	"sync"

	"github.com/momentics/hioload-poll/api"
)

// Registration is a fake api.Registration with injectable readiness
// streams.
type Registration struct {
	mu      sync.Mutex
	pending [2]api.Readiness
	wakers  [2]api.Waker
	takeErr error
	pollErr error
}

// NewRegistration creates an empty fake registration.
func NewRegistration() *Registration {
	return &Registration{}
}

// TakeReadiness implements api.Registration.TakeReadiness. It never
// parks a waker.
func (r *Registration) TakeReadiness(dir api.Direction) (api.Readiness, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.takeErr != nil {
		return 0, r.takeErr
	}
	bits := r.pending[dir]
	r.pending[dir] = 0
	return bits, nil
}

// PollReadiness implements api.Registration.PollReadiness. With nothing
// pending the waker is parked and ready == false is reported.
func (r *Registration) PollReadiness(dir api.Direction, w api.Waker) (api.Readiness, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pollErr != nil {
		return 0, false, r.pollErr
	}
	if bits := r.pending[dir]; bits != 0 {
		r.pending[dir] = 0
		return bits, true, nil
	}
	r.wakers[dir] = w
	return 0, false, nil
}

// Inject delivers raw readiness bits to one direction's stream, firing
// a parked waker. Bits are delivered unmasked so tests can exercise the
// drain loop with readiness irrelevant to the polled mask.
func (r *Registration) Inject(dir api.Direction, ready api.Readiness) {
	r.mu.Lock()
	r.pending[dir] |= ready
	w := r.wakers[dir]
	r.wakers[dir] = nil
	r.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// InjectEvent splits ready across both directions the way a reactor
// does: each side receives the bits intersecting its mask.
func (r *Registration) InjectEvent(ready api.Readiness) {
	for _, dir := range []api.Direction{api.DirRead, api.DirWrite} {
		if bits := ready & dir.Mask(); bits != 0 {
			r.Inject(dir, bits)
		}
	}
}

// Parked reports whether a waker is currently parked for dir.
func (r *Registration) Parked(dir api.Direction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wakers[dir] != nil
}

// SetTakeError configures TakeReadiness to fail.
func (r *Registration) SetTakeError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takeErr = err
}

// SetPollError configures PollReadiness to fail.
func (r *Registration) SetPollError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pollErr = err
}
