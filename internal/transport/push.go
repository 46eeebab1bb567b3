package transport

import "sync"

// pushBuffer bounds how far a slow connection may fall behind before it
// is written off as dead.
const pushBuffer = 64

// Push is a non-blocking transport for event-driven connections. Send
// enqueues onto a buffered channel drained by the connection's writer
// pump; a full buffer marks the transport dead rather than stalling the
// caller, so a slow websocket can never hold up a room broadcast.
type Push struct {
	mu     sync.Mutex
	out    chan string
	dead   bool
	closed bool
}

func NewPush() *Push {
	return &Push{out: make(chan string, pushBuffer)}
}

func (t *Push) Send(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dead {
		return ErrClosed
	}
	select {
	case t.out <- text:
		return nil
	default:
		t.dead = true
		return ErrClosed
	}
}

func (t *Push) ReceiveLine() (string, error) {
	return "", ErrPushTransport
}

// Outbound is the writer pump's feed. It closes when the transport does.
func (t *Push) Outbound() <-chan string {
	return t.out
}

func (t *Push) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.dead = true
	close(t.out)
	return nil
}

func (t *Push) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.dead
}
