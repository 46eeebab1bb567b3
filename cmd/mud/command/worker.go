package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dominicmartinelli/pymud3/internal/combat"
	"github.com/dominicmartinelli/pymud3/internal/commands"
	"github.com/dominicmartinelli/pymud3/internal/dialogue"
	"github.com/dominicmartinelli/pymud3/internal/driver"
	"github.com/dominicmartinelli/pymud3/internal/game"
	"github.com/dominicmartinelli/pymud3/internal/listener"
	"github.com/dominicmartinelli/pymud3/internal/messaging"
	"github.com/dominicmartinelli/pymud3/internal/player"
	"github.com/dominicmartinelli/pymud3/internal/web"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Message bus
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewNatsPublisher(natsServer)

	// World definitions and player saves
	dict, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("building dictionary: %w", err)
	}
	profiles, err := cfg.Storage.BuildProfileStore()
	if err != nil {
		return nil, fmt.Errorf("building profile store: %w", err)
	}

	// The world and the combat manager reference each other: combat rounds
	// resolve against the world, the world engages and disengages pairs.
	combatMgr := combat.NewManager()
	world, err := game.NewWorld(dict, profiles, pub, combatMgr, dialogue.NewClient(&cfg.Dialogue), cfg.Game.StartRoom)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	combatMgr.SetArena(world)

	// Sessions and command dispatch
	handler := commands.NewHandler(world, pub)
	sessions := player.NewSessionManager(world, handler, natsServer)
	cm := listener.NewConnectionManager(sessions)

	workers := service.WorkerList{
		"nats":     natsServer,
		"sessions": sessions,
	}

	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		workers[fmt.Sprintf("listener-%d", i)] = lst
	}

	if cfg.Web.Port != 0 {
		workers["web"] = web.NewListener(cfg.Web.Port, sessions)
	}

	// Three clocks: combat rounds and regeneration on the fast tick, NPC
	// schedules and the autosave on the minute, world events on their own
	// cadence.
	workers["combat-driver"] = driver.NewMudDriver("combat", []driver.Manager{
		combatMgr,
		driver.ManagerFunc(func(context.Context) error { return world.RegenTick() }),
	}, driver.WithTickLength(cfg.Game.combatInterval()))

	workers["schedule-driver"] = driver.NewMudDriver("schedule", []driver.Manager{
		driver.ManagerFunc(func(context.Context) error { return world.ScheduleTick(time.Now()) }),
		driver.ManagerFunc(func(context.Context) error { return world.SaveAll() }),
	}, driver.WithTickLength(cfg.Game.scheduleInterval()))

	workers["event-driver"] = driver.NewMudDriver("events", []driver.Manager{
		driver.ManagerFunc(func(context.Context) error { return world.EventsTick() }),
	}, driver.WithTickLength(cfg.Game.eventInterval()))

	return workers, nil
}
