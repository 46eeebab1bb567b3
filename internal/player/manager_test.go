package player

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dominicmartinelli/pymud3/internal/game"
	"github.com/dominicmartinelli/pymud3/internal/transport"
)

// scriptedConn feeds canned input lines and records everything written.
type scriptedConn struct {
	in  *strings.Reader
	mu  sync.Mutex
	out bytes.Buffer
}

func newScriptedConn(input string) *scriptedConn {
	return &scriptedConn{in: strings.NewReader(input)}
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	return c.in.Read(p)
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

func (c *scriptedConn) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

// fakeWorld admits every name except those marked taken.
type fakeWorld struct {
	mu      sync.Mutex
	taken   map[string]bool
	created []string
	dropped []string
}

func (w *fakeWorld) CreateSession(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.taken[strings.ToLower(name)] {
		return game.ErrNameInUse
	}
	w.created = append(w.created, name)
	return nil
}

func (w *fakeWorld) DropSession(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropped = append(w.dropped, name)
	return nil
}

// fakeDispatcher records lines and disconnects on "quit".
type fakeDispatcher struct {
	mu    sync.Mutex
	lines []string
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, name, line string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, name+": "+line)
	return strings.TrimSpace(line) == "quit"
}

// fakeBus is an in-process stand-in for the message bus.
type fakeBus struct {
	mu       sync.Mutex
	handlers map[string][]func(data []byte)
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string][]func(data []byte))}
}

func (b *fakeBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return func() {}, nil
}

func (b *fakeBus) publish(subject string, data []byte) {
	b.mu.Lock()
	hs := append([]func(data []byte){}, b.handlers[subject]...)
	b.mu.Unlock()
	for _, h := range hs {
		h(data)
	}
}

func TestRunSessionLoginAndQuit(t *testing.T) {
	world := &fakeWorld{}
	disp := &fakeDispatcher{}
	m := NewSessionManager(world, disp, newFakeBus())

	conn := newScriptedConn("rogue\nlook\nquit\n")
	if err := m.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(world.created) != 1 || world.created[0] != "Rogue" {
		t.Fatalf("expected one canonical session, got %v", world.created)
	}
	if len(world.dropped) != 1 || world.dropped[0] != "Rogue" {
		t.Fatalf("expected the session dropped, got %v", world.dropped)
	}
	if len(disp.lines) != 2 || disp.lines[0] != "Rogue: look" {
		t.Fatalf("expected look then quit dispatched, got %v", disp.lines)
	}
	if !strings.Contains(conn.Output(), "By what name") {
		t.Fatalf("expected the login prompt, got %q", conn.Output())
	}
}

func TestRunSessionNameTakenRetries(t *testing.T) {
	world := &fakeWorld{taken: map[string]bool{"rogue": true}}
	disp := &fakeDispatcher{}
	m := NewSessionManager(world, disp, newFakeBus())

	conn := newScriptedConn("Rogue\nMage\nquit\n")
	if err := m.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(conn.Output(), "already taken") {
		t.Fatalf("expected the name-taken reply, got %q", conn.Output())
	}
	if len(world.created) != 1 || world.created[0] != "Mage" {
		t.Fatalf("expected only the second name admitted, got %v", world.created)
	}
}

func TestRunSessionPeerVanishes(t *testing.T) {
	world := &fakeWorld{}
	m := NewSessionManager(world, &fakeDispatcher{}, newFakeBus())

	// Input ends right after login: the read error path must still drop.
	conn := newScriptedConn("Rogue\n")
	if err := m.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(world.dropped) != 1 {
		t.Fatalf("expected the disconnect protocol to run, got %v", world.dropped)
	}
}

func TestSessionDeliveryWiring(t *testing.T) {
	world := &fakeWorld{}
	bus := newFakeBus()
	m := NewSessionManager(world, &fakeDispatcher{}, bus)

	push := transport.NewPush()
	if _, err := m.Attach("Rogue", push); err != nil {
		t.Fatalf("attach: %v", err)
	}

	bus.publish("player-rogue", []byte("a private line\n"))
	bus.publish("world", []byte("a broadcast line\n"))

	got := []string{<-push.Outbound(), <-push.Outbound()}
	if !strings.Contains(got[0], "a private line") || !strings.Contains(got[1], "a broadcast line") {
		t.Fatalf("expected both subjects delivered, got %v", got)
	}
}

func TestAttachNameTaken(t *testing.T) {
	world := &fakeWorld{taken: map[string]bool{"rogue": true}}
	m := NewSessionManager(world, &fakeDispatcher{}, newFakeBus())

	if _, err := m.Attach("Rogue", transport.NewPush()); err != game.ErrNameInUse {
		t.Fatalf("expected ErrNameInUse, got %v", err)
	}
}

// gatedWorld signals when an admission starts and holds it until the gate
// opens.
type gatedWorld struct {
	fakeWorld
	entered chan struct{}
	admit   chan struct{}
}

func (w *gatedWorld) CreateSession(name string) error {
	close(w.entered)
	<-w.admit
	return w.fakeWorld.CreateSession(name)
}

func TestAttachRacingShutdownIsUndone(t *testing.T) {
	world := &gatedWorld{entered: make(chan struct{}), admit: make(chan struct{})}
	m := NewSessionManager(world, &fakeDispatcher{}, newFakeBus())

	// The attach passes the initial draining check, then parks inside the
	// world admission while shutdown begins.
	attached := make(chan error, 1)
	go func() {
		_, err := m.Attach("Rogue", transport.NewPush())
		attached <- err
	}()

	select {
	case <-world.entered:
	case <-time.After(time.Second):
		t.Fatal("Attach never reached the world")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancellation")
	}

	close(world.admit)

	select {
	case err := <-attached:
		if err == nil {
			t.Fatal("expected the late attach refused")
		}
	case <-time.After(time.Second):
		t.Fatal("Attach did not return")
	}

	world.mu.Lock()
	defer world.mu.Unlock()
	if len(world.dropped) != 1 || world.dropped[0] != "Rogue" {
		t.Fatalf("expected the admitted session dropped back out, got %v", world.dropped)
	}
}

func TestShutdownNotifiesAndDrops(t *testing.T) {
	world := &fakeWorld{}
	m := NewSessionManager(world, &fakeDispatcher{}, newFakeBus())

	push := transport.NewPush()
	if _, err := m.Attach("Rogue", push); err != nil {
		t.Fatalf("attach: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancellation")
	}

	if len(world.dropped) != 1 || world.dropped[0] != "Rogue" {
		t.Fatalf("expected the session dropped at shutdown, got %v", world.dropped)
	}

	var notified bool
	for msg := range push.Outbound() {
		if strings.Contains(msg, "shutting down") {
			notified = true
		}
	}
	if !notified {
		t.Fatal("expected the shutdown notice")
	}
}
