package commands

import (
	"context"
	"strconv"
)

func (h *Handler) registerCharacter() {
	h.register("stats", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Stats(name)
	})

	h.register("skills", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Skills(name)
	})

	h.register("allocate", func(ctx context.Context, name string, args []string) (bool, error) {
		if len(args) < 2 {
			return false, NewUserError("Usage: allocate <attribute> <points>")
		}
		points, err := strconv.Atoi(args[1])
		if err != nil {
			return false, NewUserError("Points must be a number. Usage: allocate <attribute> <points>")
		}
		return false, h.world.Allocate(name, args[0], points)
	})

	h.register("rest", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Rest(name)
	})

	h.register("stand", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Stand(name)
	})
}
