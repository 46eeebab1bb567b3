package commands

import "context"

var helpText = `Available commands:
  Movement:  north/south/east/west/up/down (n/s/e/w/u/d), enter portal, teleport <room>
  Doors:     open <direction>, close <direction>, unlock <direction> [code]
  Combat:    attack [target [number]] (a), special (sp), flee, tame <creature>, summon <name>
  Magic:     cast <spell> [target], spells, learn <spell>, fb/mm/h shortcuts
  Items:     get <item>, drop <item>, inventory (i), equip <item>, unequip <item>, use <item>
  Trade:     list, buy <item>, sell <item>
  Character: stats (st), skills, allocate <attribute> <points>, rest, stand
  Dialogue:  talk <npc>, say <message>, stop, chat <message>
  World:     look (l), who
  Session:   save, help, quit`

func (h *Handler) registerSession() {
	h.register("who", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Who(name)
	})

	h.register("save", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.SaveProfile(name)
	})

	h.register("help", func(ctx context.Context, name string, args []string) (bool, error) {
		h.tell(name, "%s", helpText)
		return false, nil
	})

	h.register("quit", func(ctx context.Context, name string, args []string) (bool, error) {
		h.tell(name, "Goodbye, %s!", name)
		return true, nil
	})

	// Debug commands from the original server, kept off the help listing.
	h.register("spawnmerchant", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.SpawnMerchant(name)
	})
	h.register("spawninvasion", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.SpawnInvasion(name)
	})
}
