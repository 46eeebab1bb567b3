package player

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dominicmartinelli/pymud3/internal/display"
	"github.com/dominicmartinelli/pymud3/internal/messaging"
	"github.com/dominicmartinelli/pymud3/internal/transport"
)

// Session binds one authenticated player name to one transport. It owns
// the message-bus subscriptions that carry game output to the connection.
type Session struct {
	id        string
	name      string
	transport transport.Transport

	unsubs []func()
	once   sync.Once
}

func newSession(name string, t transport.Transport) *Session {
	return &Session{
		id:        uuid.NewString(),
		name:      name,
		transport: t,
	}
}

func sessionKey(name string) string {
	return strings.ToLower(name)
}

func (s *Session) key() string {
	return sessionKey(s.name)
}

// subscribe wires the player's own subject and the world broadcast subject
// into the transport. Delivery wraps text for the terminal; send failures
// are swallowed here because a dead transport is reaped by the owning loop,
// never by the broadcaster.
func (s *Session) subscribe(bus Subscriber) error {
	deliver := func(data []byte) {
		_ = s.transport.Send(display.Wrap(string(data)))
	}

	unsub, err := bus.Subscribe(messaging.PlayerSubject(s.name), deliver)
	if err != nil {
		return err
	}
	s.unsubs = append(s.unsubs, unsub)

	unsub, err = bus.Subscribe(messaging.WorldSubject, deliver)
	if err != nil {
		s.unsubscribe()
		return err
	}
	s.unsubs = append(s.unsubs, unsub)
	return nil
}

func (s *Session) unsubscribe() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}
