package commands

import (
	"context"
	"strconv"
	"strings"
)

func (h *Handler) registerCombat() {
	h.register("attack", func(ctx context.Context, name string, args []string) (bool, error) {
		// A trailing number picks between same-named targets:
		// "attack goblin 2" attacks the second goblin.
		index := 1
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[len(args)-1]); err == nil && n > 0 {
				index = n
				args = args[:len(args)-1]
			}
		}
		return false, h.world.Attack(name, strings.Join(args, " "), index)
	})

	h.register("special", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Special(name)
	})

	h.register("flee", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Flee(name)
	})

	h.register("tame", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Tame(name, strings.Join(args, " "))
	})

	h.register("summon", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Summon(name, strings.Join(args, " "))
	})
}
