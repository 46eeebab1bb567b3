package commands

import (
	"context"
	"strings"
)

func (h *Handler) registerMovement() {
	for _, dir := range []string{"north", "south", "east", "west", "up", "down"} {
		d := dir
		h.register(d, func(ctx context.Context, name string, args []string) (bool, error) {
			return false, h.world.Move(name, d)
		})
	}

	h.register("look", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Look(name)
	})

	h.register("teleport", func(ctx context.Context, name string, args []string) (bool, error) {
		if len(args) == 0 {
			return false, NewUserError("Teleport where? Usage: teleport <room>")
		}
		return false, h.world.Teleport(name, strings.Join(args, " "))
	})

	h.register("enter", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Enter(name, strings.Join(args, " "))
	})
}
