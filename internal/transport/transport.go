package transport

import "errors"

var (
	// ErrPushTransport is returned by ReceiveLine on push transports,
	// where input arrives through the connection's own dispatcher.
	ErrPushTransport = errors.New("push transport receives input via events")

	// ErrClosed is returned by Send once a transport is dead.
	ErrClosed = errors.New("transport closed")
)

// Transport is one session's connection. Game logic only ever sees this
// interface; it never touches sockets or event-loop details. A send
// failure marks the transport dead — the owning loop reaps the session at
// its next boundary, and no broadcast path aborts because one session's
// send failed.
type Transport interface {
	// Send delivers text to the remote party. Pull transports write
	// directly and may block; push transports enqueue and never block.
	Send(text string) error

	// ReceiveLine blocks until a line arrives or the peer goes away.
	// Push transports return ErrPushTransport.
	ReceiveLine() (string, error)

	// Close releases the connection. Idempotent.
	Close() error

	// IsConnected is a cheap liveness probe.
	IsConnected() bool
}
