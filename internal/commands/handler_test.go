package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockWorld records the last world operation dispatched to it.
type mockWorld struct {
	calls []string

	err error
}

func (m *mockWorld) call(parts ...string) error {
	m.calls = append(m.calls, strings.Join(parts, " "))
	return m.err
}

func (m *mockWorld) Look(name string) error                  { return m.call("look", name) }
func (m *mockWorld) Move(name, dir string) error             { return m.call("move", name, dir) }
func (m *mockWorld) Teleport(name, where string) error       { return m.call("teleport", name, where) }
func (m *mockWorld) Enter(name, target string) error         { return m.call("enter", name, target) }
func (m *mockWorld) OpenDoor(name, dir string) error         { return m.call("open", name, dir) }
func (m *mockWorld) CloseDoor(name, dir string) error        { return m.call("close", name, dir) }
func (m *mockWorld) UnlockDoor(name, dir, code string) error { return m.call("unlock", name, dir, code) }
func (m *mockWorld) Attack(name, target string, index int) error {
	return m.call("attack", name, target, string(rune('0'+index)))
}
func (m *mockWorld) Special(name string) error            { return m.call("special", name) }
func (m *mockWorld) Flee(name string) error               { return m.call("flee", name) }
func (m *mockWorld) Tame(name, target string) error       { return m.call("tame", name, target) }
func (m *mockWorld) Summon(name, mob string) error        { return m.call("summon", name, mob) }
func (m *mockWorld) SpellList(name string) error          { return m.call("spells", name) }
func (m *mockWorld) LearnSpell(name, spell string) error  { return m.call("learn", name, spell) }
func (m *mockWorld) PickUp(name, item string) error       { return m.call("get", name, item) }
func (m *mockWorld) Drop(name, item string) error         { return m.call("drop", name, item) }
func (m *mockWorld) Inventory(name string) error          { return m.call("inventory", name) }
func (m *mockWorld) Equip(name, item string) error        { return m.call("equip", name, item) }
func (m *mockWorld) Unequip(name, item string) error      { return m.call("unequip", name, item) }
func (m *mockWorld) UseItem(name, item string) error      { return m.call("use", name, item) }
func (m *mockWorld) ListVendors(name string) error        { return m.call("list", name) }
func (m *mockWorld) Buy(name, item string) error          { return m.call("buy", name, item) }
func (m *mockWorld) Sell(name, item string) error         { return m.call("sell", name, item) }
func (m *mockWorld) Stats(name string) error              { return m.call("stats", name) }
func (m *mockWorld) Skills(name string) error             { return m.call("skills", name) }
func (m *mockWorld) Rest(name string) error               { return m.call("rest", name) }
func (m *mockWorld) Stand(name string) error              { return m.call("stand", name) }
func (m *mockWorld) StopChat(name string) error           { return m.call("stop", name) }
func (m *mockWorld) Chat(name, msg string) error          { return m.call("chat", name, msg) }
func (m *mockWorld) Who(name string) error                { return m.call("who", name) }
func (m *mockWorld) SaveProfile(name string) error        { return m.call("save", name) }
func (m *mockWorld) SpawnMerchant(name string) error      { return m.call("spawnmerchant", name) }
func (m *mockWorld) SpawnInvasion(name string) error      { return m.call("spawninvasion", name) }

func (m *mockWorld) CastSpell(name, spell, target string) error {
	return m.call("cast", name, spell, target)
}

func (m *mockWorld) Allocate(name, attribute string, points int) error {
	return m.call("allocate", name, attribute, string(rune('0'+points)))
}

func (m *mockWorld) Talk(ctx context.Context, name, npc string) error {
	return m.call("talk", name, npc)
}

func (m *mockWorld) Say(ctx context.Context, name, msg string) error {
	return m.call("say", name, msg)
}

// recordingPublisher captures handler-level replies.
type recordingPublisher struct {
	messages []string
}

func (p *recordingPublisher) PublishToPlayer(name string, data []byte) error {
	p.messages = append(p.messages, string(data))
	return nil
}

func TestDispatchRouting(t *testing.T) {
	tests := map[string]struct {
		input      string
		expCall    string
		expMessage string
	}{
		"movement":             {input: "north", expCall: "move Rogue north"},
		"movement abbrev":      {input: "n", expCall: "move Rogue north"},
		"look abbrev":          {input: "l", expCall: "look Rogue"},
		"attack with index":    {input: "attack goblin 2", expCall: "attack Rogue goblin 2"},
		"attack bare":          {input: "a", expCall: "attack Rogue  1"},
		"cast with target":     {input: "cast fireball goblin", expCall: "cast Rogue fireball goblin"},
		"fireball shortcut":    {input: "fb goblin", expCall: "cast Rogue fireball goblin"},
		"magic missile":        {input: "mm", expCall: "cast Rogue magic missile "},
		"heal shortcut":        {input: "h", expCall: "cast Rogue heal "},
		"unlock with code":     {input: "unlock north 1234", expCall: "unlock Rogue north 1234"},
		"get alias":            {input: "take sword", expCall: "get Rogue sword"},
		"inventory abbrev":     {input: "i", expCall: "inventory Rogue"},
		"multiword item":       {input: "equip steel sword", expCall: "equip Rogue steel sword"},
		"say":                  {input: "say hello there", expCall: "say Rogue hello there"},
		"allocate":             {input: "allocate strength 3", expCall: "allocate Rogue strength 3"},
		"case insensitive":     {input: "LOOK", expCall: "look Rogue"},
		"whitespace tolerated": {input: "  who  ", expCall: "who Rogue"},
		"unknown command":      {input: "dance", expMessage: "Unknown command. Type 'help'"},
		"missing cast arg":     {input: "cast", expMessage: "Cast what spell?"},
		"bad door direction":   {input: "open sideways", expMessage: "That is not a direction."},
		"allocate non-number":  {input: "allocate strength lots", expMessage: "Points must be a number."},
		"empty line":           {input: "   "},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			world := &mockWorld{}
			pub := &recordingPublisher{}
			h := NewHandler(world, pub)

			disconnect := h.Dispatch(context.Background(), "Rogue", tt.input)
			if disconnect {
				t.Fatalf("expected no disconnect for %q", tt.input)
			}

			if tt.expCall != "" {
				if len(world.calls) != 1 {
					t.Fatalf("expected one world call, got %v", world.calls)
				}
				testutil.AssertEqual(t, "world call", world.calls[0], tt.expCall)
			} else if len(world.calls) != 0 {
				t.Fatalf("expected no world calls, got %v", world.calls)
			}

			if tt.expMessage != "" {
				if len(pub.messages) != 1 {
					t.Fatalf("expected one reply, got %v", pub.messages)
				}
				if !strings.Contains(pub.messages[0], tt.expMessage) {
					t.Fatalf("reply %q does not contain %q", pub.messages[0], tt.expMessage)
				}
			}
		})
	}
}

func TestDispatchQuit(t *testing.T) {
	world := &mockWorld{}
	pub := &recordingPublisher{}
	h := NewHandler(world, pub)

	for _, input := range []string{"quit", "exit", "bye"} {
		if !h.Dispatch(context.Background(), "Rogue", input) {
			t.Fatalf("expected disconnect for %q", input)
		}
	}
}

func TestDispatchSystemError(t *testing.T) {
	world := &mockWorld{err: context.DeadlineExceeded}
	pub := &recordingPublisher{}
	h := NewHandler(world, pub)

	if h.Dispatch(context.Background(), "Rogue", "look") {
		t.Fatal("system error must not disconnect the session")
	}
	if len(pub.messages) != 1 || !strings.Contains(pub.messages[0], "Something went wrong") {
		t.Fatalf("expected a generic failure reply, got %v", pub.messages)
	}
}

func TestDispatchUserError(t *testing.T) {
	world := &mockWorld{}
	pub := &recordingPublisher{}
	h := NewHandler(world, pub)

	h.Dispatch(context.Background(), "Rogue", "teleport")
	if len(pub.messages) != 1 || !strings.Contains(pub.messages[0], "Teleport where?") {
		t.Fatalf("expected the usage reply, got %v", pub.messages)
	}
}

// panicWorld blows up on every Look to exercise the recovery boundary.
type panicWorld struct {
	mockWorld
}

func (p *panicWorld) Look(name string) error { panic("boom") }

func TestDispatchRecoversPanic(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewHandler(&panicWorld{}, pub)

	if h.Dispatch(context.Background(), "Rogue", "look") {
		t.Fatal("panic must not disconnect the session")
	}
	if len(pub.messages) != 1 || !strings.Contains(pub.messages[0], "Something went wrong") {
		t.Fatalf("expected a generic failure reply, got %v", pub.messages)
	}

	// The handler keeps working after a panic.
	h.Dispatch(context.Background(), "Rogue", "help")
	if len(pub.messages) != 2 {
		t.Fatalf("expected the help reply after recovery, got %v", pub.messages)
	}
}
