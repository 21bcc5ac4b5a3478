//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor. Registers connections edge-triggered,
// translates kernel events into api.Readiness and wakes parked pollers.

package reactor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/control"
)

const (
	maxEvents     = 128
	waitTimeoutMs = 100
)

// Reactor is an edge-triggered epoll event loop implementing
// api.Registrar. Run drives it; Register/Deregister may be called from
// any goroutine.
type Reactor struct {
	epfd    int
	regs    sync.Map // map[int32]*registration
	closed  atomic.Bool
	metrics *control.MetricsRegistry

	events          *control.Counter
	wakeups         *control.Counter
	registrations   *control.Counter
	deregistrations *control.Counter
}

// New creates a reactor backed by a fresh epoll instance.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll create: %w", err)
	}
	m := control.NewMetricsRegistry()
	return &Reactor{
		epfd:            epfd,
		metrics:         m,
		events:          m.Counter("reactor.events"),
		wakeups:         m.Counter("reactor.wakeups"),
		registrations:   m.Counter("reactor.registrations"),
		deregistrations: m.Counter("reactor.deregistrations"),
	}, nil
}

// Metrics returns the reactor's counter registry.
func (r *Reactor) Metrics() *control.MetricsRegistry { return r.metrics }

// Register implements api.Registrar. The connection must expose a raw
// descriptor; the descriptor is watched edge-triggered for read, write
// and peer-hangup transitions.
func (r *Reactor) Register(conn api.Conn) (api.Registration, error) {
	if r.closed.Load() {
		return nil, api.ErrRegistrarClosed
	}
	raw, ok := conn.(api.RawConn)
	if !ok {
		return nil, api.ErrNotRawConn
	}
	fd := int32(raw.RawFD())

	reg := newRegistration(&r.closed)
	if _, dup := r.regs.LoadOrStore(fd, reg); dup {
		return nil, api.ErrAlreadyRegistered
	}

	ev := &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLRDHUP | unix.EPOLLET,
		Fd:     fd,
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), ev); err != nil {
		r.regs.Delete(fd)
		return nil, api.NewError(api.ErrCodeInternal, "epoll ctl add").
			WithCause(err).WithContext("fd", fd)
	}
	r.registrations.Inc()
	return reg, nil
}

// Deregister implements api.Registrar.
func (r *Reactor) Deregister(conn api.Conn, _ api.Registration) error {
	raw, ok := conn.(api.RawConn)
	if !ok {
		return api.ErrNotRawConn
	}
	fd := int32(raw.RawFD())

	if _, ok := r.regs.LoadAndDelete(fd); !ok {
		return api.ErrNotRegistered
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(fd), nil); err != nil {
		return api.NewError(api.ErrCodeInternal, "epoll ctl del").
			WithCause(err).WithContext("fd", fd)
	}
	r.deregistrations.Inc()
	return nil
}

// Run drives the event loop until ctx is done or the reactor is closed.
// Wakers claimed during a batch are queued and fired after the whole
// batch is translated, so a poller woken by one event does not race the
// delivery of the rest of the batch.
func (r *Reactor) Run(ctx context.Context) error {
	events := make([]unix.EpollEvent, maxEvents)
	pendingWakes := queue.New()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.closed.Load() {
			return nil
		}

		n, err := unix.EpollWait(r.epfd, events, waitTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if r.closed.Load() {
				return nil
			}
			return fmt.Errorf("reactor: epoll wait: %w", err)
		}

		for i := 0; i < n; i++ {
			reg, ok := r.regs.Load(events[i].Fd)
			if !ok {
				continue
			}
			ready := toReadiness(events[i].Events)
			if ready.IsZero() {
				continue
			}
			r.events.Inc()
			reg.(*registration).deliver(ready, func(w api.Waker) {
				pendingWakes.Add(w)
			})
		}

		for pendingWakes.Length() > 0 {
			pendingWakes.Remove().(api.Waker).Wake()
			r.wakeups.Inc()
		}
	}
}

// Close stops the reactor. Pending registrations observe
// ErrRegistrarClosed on their next stream operation.
func (r *Reactor) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return unix.Close(r.epfd)
}

// toReadiness translates an epoll event bitmap.
func toReadiness(ev uint32) api.Readiness {
	var ready api.Readiness
	if ev&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		ready |= api.ReadReady
	}
	if ev&unix.EPOLLOUT != 0 {
		ready |= api.WriteReady
	}
	if ev&unix.EPOLLERR != 0 {
		ready |= api.ErrorReady
	}
	if ev&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		ready |= api.HangupReady
	}
	return ready
}
