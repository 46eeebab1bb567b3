package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// World is the set of named game operations commands dispatch into. Every
// method is a critical-section operation on the world; handlers never touch
// shared state directly. Implemented by game.World.
type World interface {
	// Movement and looking around
	Look(name string) error
	Move(name, direction string) error
	Teleport(name, where string) error
	Enter(name, target string) error

	// Doors
	OpenDoor(name, direction string) error
	CloseDoor(name, direction string) error
	UnlockDoor(name, direction, code string) error

	// Combat
	Attack(name, target string, index int) error
	Special(name string) error
	Flee(name string) error
	Tame(name, target string) error
	Summon(name, mob string) error

	// Magic
	CastSpell(name, spell, target string) error
	SpellList(name string) error
	LearnSpell(name, spell string) error

	// Items and trade
	PickUp(name, item string) error
	Drop(name, item string) error
	Inventory(name string) error
	Equip(name, item string) error
	Unequip(name, item string) error
	UseItem(name, item string) error
	ListVendors(name string) error
	Buy(name, item string) error
	Sell(name, item string) error

	// Character
	Stats(name string) error
	Skills(name string) error
	Allocate(name, attribute string, points int) error
	Rest(name string) error
	Stand(name string) error

	// Dialogue and chatter
	Talk(ctx context.Context, name, npc string) error
	Say(ctx context.Context, name, message string) error
	StopChat(name string) error
	Chat(name, message string) error

	// World information and session control
	Who(name string) error
	SaveProfile(name string) error
	SpawnMerchant(name string) error
	SpawnInvasion(name string) error
}

// Publisher delivers handler-level messages (help, parse errors) straight
// to the issuing player's subject.
type Publisher interface {
	PublishToPlayer(name string, data []byte) error
}

// commandFunc executes one parsed command. Returning disconnect=true tells
// the session loop to run the disconnect protocol.
type commandFunc func(ctx context.Context, name string, args []string) (disconnect bool, err error)

// Handler parses player input lines and routes them to world operations.
// It is shared by every session on every transport.
type Handler struct {
	world World
	pub   Publisher

	commands map[string]commandFunc
}

// aliases expand single-word shorthand before dispatch. Spell shortcuts
// expand to a full cast so "fb goblin" works.
var aliases = map[string][]string{
	"n":    {"north"},
	"s":    {"south"},
	"e":    {"east"},
	"w":    {"west"},
	"u":    {"up"},
	"d":    {"down"},
	"l":    {"look"},
	"a":    {"attack"},
	"sp":   {"special"},
	"spec": {"special"},
	"i":    {"inventory"},
	"inv":  {"inventory"},
	"st":   {"stats"},
	"fb":   {"cast", "fireball"},
	"mm":   {"cast", "magic missile"},
	"h":    {"cast", "heal"},
	"take": {"get"},
	"exit": {"quit"},
	"bye":  {"quit"},
}

func NewHandler(world World, pub Publisher) *Handler {
	h := &Handler{
		world: world,
		pub:   pub,
	}
	h.commands = map[string]commandFunc{}
	h.registerMovement()
	h.registerDoors()
	h.registerCombat()
	h.registerMagic()
	h.registerItems()
	h.registerCharacter()
	h.registerDialogue()
	h.registerSession()
	return h
}

func (h *Handler) register(verb string, fn commandFunc) {
	h.commands[verb] = fn
}

// tell sends a line from the handler itself, outside any world operation.
func (h *Handler) tell(name, format string, args ...any) {
	text := fmt.Sprintf(format, args...) + "\n"
	if err := h.pub.PublishToPlayer(name, []byte(text)); err != nil {
		slog.Warn("publishing command reply", "player", name, "error", err)
	}
}

// Dispatch parses one input line and runs its command. It reports whether
// the session should disconnect. Nothing a handler does may take the
// session down: user errors are reported to the player, system errors and
// panics are logged and reported as a generic failure, and the loop keeps
// going either way.
func (h *Handler) Dispatch(ctx context.Context, name, line string) (disconnect bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "command handler panic", "player", name, "input", line, "panic", r)
			h.tell(name, "Something went wrong handling that command.")
			disconnect = false
		}
	}()

	words := strings.Fields(strings.TrimSpace(line))
	if len(words) == 0 {
		return false
	}

	verb := strings.ToLower(words[0])
	if expansion, ok := aliases[verb]; ok {
		words = append(append([]string{}, expansion...), words[1:]...)
		verb = words[0]
	}

	fn, ok := h.commands[verb]
	if !ok {
		h.tell(name, "Unknown command. Type 'help' to see a list of available commands.")
		return false
	}

	disconnect, err := fn(ctx, name, words[1:])
	if err != nil {
		var ue *UserError
		if errors.As(err, &ue) {
			h.tell(name, "%s", ue.Message)
			return disconnect
		}
		slog.ErrorContext(ctx, "command failed", "player", name, "command", verb, "error", err)
		h.tell(name, "Something went wrong handling that command.")
	}
	return disconnect
}
