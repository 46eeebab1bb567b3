package command

import (
	"fmt"

	"github.com/dominicmartinelli/pymud3/internal/dialogue"
	"github.com/pixil98/go-errors"
)

type Config struct {
	Listeners []ListenerConfig `json:"listeners"`
	Web       WebConfig        `json:"web"`
	Storage   StorageConfig    `json:"storage"`
	Nats      NatsConfig       `json:"nats"`
	Game      GameConfig       `json:"game"`
	Dialogue  dialogue.Config  `json:"dialogue"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Web.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Game.validate())
	el.Add(c.Dialogue.Validate())

	return el.Err()
}
