package commands

import (
	"context"
	"strings"
)

// direction validates a door command's direction argument.
func direction(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", NewUserError(usage)
	}
	dir := strings.ToLower(args[0])
	switch dir {
	case "north", "south", "east", "west", "up", "down":
		return dir, nil
	}
	return "", NewUserError("That is not a direction.")
}

func (h *Handler) registerDoors() {
	h.register("open", func(ctx context.Context, name string, args []string) (bool, error) {
		dir, err := direction(args, "Open which direction? Usage: open <direction>")
		if err != nil {
			return false, err
		}
		return false, h.world.OpenDoor(name, dir)
	})

	h.register("close", func(ctx context.Context, name string, args []string) (bool, error) {
		dir, err := direction(args, "Close which direction? Usage: close <direction>")
		if err != nil {
			return false, err
		}
		return false, h.world.CloseDoor(name, dir)
	})

	h.register("unlock", func(ctx context.Context, name string, args []string) (bool, error) {
		dir, err := direction(args, "Unlock which direction? Usage: unlock <direction> [code]")
		if err != nil {
			return false, err
		}
		code := ""
		if len(args) > 1 {
			code = args[1]
		}
		return false, h.world.UnlockDoor(name, dir, code)
	})
}
