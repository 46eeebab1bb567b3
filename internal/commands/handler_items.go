package commands

import (
	"context"
	"strings"
)

// itemArg joins an item-naming argument list, rejecting empty input.
func itemArg(args []string, usage string) (string, error) {
	item := strings.Join(args, " ")
	if item == "" {
		return "", NewUserError(usage)
	}
	return item, nil
}

func (h *Handler) registerItems() {
	h.register("get", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Get what? Usage: get <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.PickUp(name, item)
	})

	h.register("drop", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Drop what? Usage: drop <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.Drop(name, item)
	})

	h.register("inventory", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Inventory(name)
	})

	h.register("equip", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Equip what? Usage: equip <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.Equip(name, item)
	})

	h.register("unequip", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Unequip what? Usage: unequip <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.Unequip(name, item)
	})

	h.register("use", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Use what? Usage: use <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.UseItem(name, item)
	})

	h.register("list", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.ListVendors(name)
	})

	h.register("buy", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Buy what? Usage: buy <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.Buy(name, item)
	})

	h.register("sell", func(ctx context.Context, name string, args []string) (bool, error) {
		item, err := itemArg(args, "Sell what? Usage: sell <item>")
		if err != nil {
			return false, err
		}
		return false, h.world.Sell(name, item)
	})
}
