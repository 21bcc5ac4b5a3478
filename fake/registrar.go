// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for all core interfaces.

package fake

import (
	"sync"

	"github.com/momentics/hioload-poll/api"
)

// Registrar is a fake api.Registrar handing out injectable
// registrations.
type Registrar struct {
	mu            sync.Mutex
	regs          map[api.Conn]*Registration
	registerErr   error
	deregisterErr error
	deregistered  []api.Conn
}

// NewRegistrar creates a fake registrar with default settings.
func NewRegistrar() *Registrar {
	return &Registrar{regs: make(map[api.Conn]*Registration)}
}

// Register implements api.Registrar.Register.
func (f *Registrar) Register(conn api.Conn) (api.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, dup := f.regs[conn]; dup {
		return nil, api.ErrAlreadyRegistered
	}
	reg := NewRegistration()
	f.regs[conn] = reg
	return reg, nil
}

// Deregister implements api.Registrar.Deregister. The call is recorded
// even when a configured error is returned.
func (f *Registrar) Deregister(conn api.Conn, _ api.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deregistered = append(f.deregistered, conn)
	if f.deregisterErr != nil {
		return f.deregisterErr
	}
	if _, ok := f.regs[conn]; !ok {
		return api.ErrNotRegistered
	}
	delete(f.regs, conn)
	return nil
}

// RegistrationFor returns the registration handed out for conn.
func (f *Registrar) RegistrationFor(conn api.Conn) *Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[conn]
}

// Deregistered returns the connections passed to Deregister so far.
func (f *Registrar) Deregistered() []api.Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Conn, len(f.deregistered))
	copy(out, f.deregistered)
	return out
}

// SetRegisterError configures Register to fail.
func (f *Registrar) SetRegisterError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerErr = err
}

// SetDeregisterError configures Deregister to fail.
func (f *Registrar) SetDeregisterError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deregisterErr = err
}
