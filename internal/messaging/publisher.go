package messaging

import (
	"fmt"
	"strings"
)

// WorldSubject carries broadcasts addressed to every connected session.
const WorldSubject = "world"

// PlayerSubject is the per-player delivery subject. Sessions subscribe to
// it on attach and unsubscribe on drop.
func PlayerSubject(name string) string {
	return fmt.Sprintf("player-%s", strings.ToLower(name))
}

// NatsPublisher routes game output over the embedded NATS server.
type NatsPublisher struct {
	server *NatsServer
}

func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

func (p *NatsPublisher) PublishToPlayer(name string, data []byte) error {
	return p.server.Publish(PlayerSubject(name), data)
}

func (p *NatsPublisher) PublishToWorld(data []byte) error {
	return p.server.Publish(WorldSubject, data)
}
