package commands

import (
	"context"
	"strings"
)

func (h *Handler) registerMagic() {
	h.register("cast", func(ctx context.Context, name string, args []string) (bool, error) {
		if len(args) == 0 {
			return false, NewUserError("Cast what spell? Usage: cast <spell> [target]")
		}
		return false, h.world.CastSpell(name, args[0], strings.Join(args[1:], " "))
	})

	h.register("spells", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.SpellList(name)
	})

	h.register("learn", func(ctx context.Context, name string, args []string) (bool, error) {
		if len(args) == 0 {
			return false, NewUserError("Learn what spell? Usage: learn <spell>")
		}
		return false, h.world.LearnSpell(name, strings.Join(args, " "))
	})
}
