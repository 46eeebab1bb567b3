package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultTickLength = time.Second * 2
)

type Manager interface {
	Tick(context.Context) error
}

// ManagerFunc adapts a plain function to the Manager interface.
type ManagerFunc func(context.Context) error

func (f ManagerFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

// MudDriver runs its managers on a fixed cadence. A failing manager is
// logged and the loop keeps ticking: one bad tick must never stop the
// world clock.
type MudDriver struct {
	name       string
	tickLength time.Duration
	managers   []Manager
}

func NewMudDriver(name string, managers []Manager, opts ...MudDriverOpt) *MudDriver {
	d := &MudDriver{
		name:       name,
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *MudDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				slog.WarnContext(ctx, "driver tick", "driver", d.name, "error", err)
			}
		}
	}
}

func (d *MudDriver) Tick(ctx context.Context) error {
	el := errors.NewErrorList()
	for _, m := range d.managers {
		el.Add(m.Tick(ctx))
	}
	return el.Err()
}
