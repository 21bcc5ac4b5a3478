//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub reactor for platforms without an epoll backend.

package reactor

import (
	"context"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/control"
)

// Reactor is unavailable on this platform.
type Reactor struct {
	metrics *control.MetricsRegistry
}

// New reports the platform as unsupported.
func New() (*Reactor, error) {
	return nil, api.ErrNotSupported
}

// Metrics returns the reactor's counter registry.
func (r *Reactor) Metrics() *control.MetricsRegistry { return r.metrics }

// Register implements api.Registrar.
func (r *Reactor) Register(api.Conn) (api.Registration, error) {
	return nil, api.ErrNotSupported
}

// Deregister implements api.Registrar.
func (r *Reactor) Deregister(api.Conn, api.Registration) error {
	return api.ErrNotSupported
}

// Run implements the event loop.
func (r *Reactor) Run(context.Context) error { return api.ErrNotSupported }

// Close releases backend resources.
func (r *Reactor) Close() error { return nil }
