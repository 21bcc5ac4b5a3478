// File: api/registration.go
// Author: momentics <momentics@gmail.com>
//
// Contracts between a reactor and the poll sources it drives. The
// registrar hands out one registration per wrapped connection; the
// registration exposes that connection's coalesced readiness stream.

package api

// Registration is the per-connection handle through which an adapter
// consumes readiness and registers task wake-up interest. Each direction
// carries an independent stream; delivered values are coalesced
// bitmasks, not queued events.
type Registration interface {
	// TakeReadiness drains readiness observed since the last drain for
	// the direction. It never registers a waker and never suspends;
	// a zero result means nothing new was observed.
	TakeReadiness(dir Direction) (Readiness, error)

	// PollReadiness drains readiness for the direction. When nothing is
	// pending it parks w for a single future wake and reports
	// ready == false. A delivery racing the park must not be lost:
	// implementations re-check after parking.
	PollReadiness(dir Direction, w Waker) (ready Readiness, ok bool, err error)
}

// Registrar registers connections with a reactor for edge-triggered
// readiness notifications.
type Registrar interface {
	// Register associates conn with the reactor and returns its
	// registration. Registering the same resource twice fails with
	// ErrAlreadyRegistered.
	Register(conn Conn) (Registration, error)

	// Deregister removes conn from the reactor. The registration is
	// unusable afterward regardless of the returned error.
	Deregister(conn Conn, reg Registration) error
}
