package command

import (
	"fmt"
	"time"

	"github.com/dominicmartinelli/pymud3/internal/driver"
	"github.com/pixil98/go-errors"
)

const (
	defaultScheduleInterval = time.Minute
	defaultEventInterval    = 30 * time.Second
)

type GameConfig struct {
	StartRoom        string `json:"start_room"`
	CombatInterval   string `json:"combat_interval"`
	ScheduleInterval string `json:"schedule_interval"`
	EventInterval    string `json:"event_interval"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}

	for name, val := range map[string]string{
		"combat_interval":   c.CombatInterval,
		"schedule_interval": c.ScheduleInterval,
		"event_interval":    c.EventInterval,
	} {
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("%s must be at least 1 second", name))
		}
	}

	return el.Err()
}

func (c *GameConfig) combatInterval() time.Duration {
	return parseInterval(c.CombatInterval, driver.DefaultTickLength)
}

func (c *GameConfig) scheduleInterval() time.Duration {
	return parseInterval(c.ScheduleInterval, defaultScheduleInterval)
}

func (c *GameConfig) eventInterval() time.Duration {
	return parseInterval(c.EventInterval, defaultEventInterval)
}

func parseInterval(val string, fallback time.Duration) time.Duration {
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
